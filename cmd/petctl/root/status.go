package root

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/petcare/internal/pet"
	"github.com/mmeshcher/petcare/internal/service"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pet, its wallet and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			p, err := svc.Pet(ctx)
			if errors.Is(err, service.ErrNoPet) {
				fmt.Fprintln(out, "No pet yet.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s the %s (%s, level %d, %d xp)\n", p.Name, p.Species, p.Stage, p.Level, p.Experience)
			fmt.Fprintf(out, "- Born:        %s (%d days old)\n", p.BornAt.Format(time.DateOnly), int(pet.Age(p, time.Now())/(24*time.Hour)))
			fmt.Fprintf(out, "- Hunger:      %d\n", int(math.Round(p.Stats.Hunger)))
			fmt.Fprintf(out, "- Happiness:   %d\n", int(math.Round(p.Stats.Happiness)))
			fmt.Fprintf(out, "- Health:      %d\n", int(math.Round(p.Stats.Health)))
			fmt.Fprintf(out, "- Cleanliness: %d\n", int(math.Round(p.Stats.Cleanliness)))
			fmt.Fprintf(out, "- Energy:      %d\n", int(math.Round(p.Stats.Energy)))
			for _, a := range p.Accessories {
				fmt.Fprintf(out, "- Wearing %s (%s)\n", a.Name, a.Slot)
			}
			fmt.Fprintln(out, "")

			bal, err := svc.Balance(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wallet: %d coins (earned %d, spent %d)\n", bal.Balance, bal.Earned, bal.Spent)

			b, err := svc.BonusStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Daily bonus: %s, streak %d (best %d)\n", b.Status, b.Streak, b.LongestStreak)

			unlocked, total := svc.AchievementCounts(ctx)
			fmt.Fprintf(out, "Achievements: %d/%d unlocked\n", unlocked, total)
			return nil
		},
	}

	return cmd
}
