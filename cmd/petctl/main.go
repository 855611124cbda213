// Package main содержит утилиту обслуживания сохранённого состояния petcare.
package main

import "github.com/mmeshcher/petcare/cmd/petctl/root"

func main() {
	root.Execute()
}
