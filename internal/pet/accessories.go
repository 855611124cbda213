package pet

import (
	"github.com/mmeshcher/petcare/internal/model"
)

// Equip надевает аксессуар, заменяя тот, что занимал тот же слот.
// Возвращает снятый аксессуар, если он был.
func Equip(p *model.Pet, item model.AccessoryItem) (model.Accessory, bool) {
	acc := model.Accessory{ID: item.ID, Name: item.Name, Slot: item.Slot}
	for i, a := range p.Accessories {
		if a.Slot == item.Slot {
			p.Accessories[i] = acc
			return a, true
		}
	}
	p.Accessories = append(p.Accessories, acc)
	return model.Accessory{}, false
}

// Unequip снимает аксессуар из слота. Возвращает false, если слот пуст.
func Unequip(p *model.Pet, slot model.Slot) bool {
	for i, a := range p.Accessories {
		if a.Slot == slot {
			p.Accessories = append(p.Accessories[:i], p.Accessories[i+1:]...)
			return true
		}
	}
	return false
}

// Wears сообщает, надет ли аксессуар id.
func Wears(p model.Pet, id string) bool {
	for _, a := range p.Accessories {
		if a.ID == id {
			return true
		}
	}
	return false
}
