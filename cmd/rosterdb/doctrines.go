package main

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/spf13/cobra"
)

func getDoctrinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctrines",
		Short: "Lists the selectable Cohort Doctrines",
		Long: `Lists the Cohort Doctrines a roster may select, with the effect each
has on detachment slot caps and auxiliary costs. At most one doctrine
can be active on a roster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range bsdata.AvailableDoctrines() {
				fmt.Printf("%-20s %s\n", d.Name, d.Effect)
				fmt.Printf("%-20s id: %s\n\n", "", d.ID)
			}
			return nil
		},
	}
	return cmd
}
