package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/recall/pkg/memory"
)

var (
	userFlag   string
	limitFlag  int
	statusFlag string
	typeFlag   string
	slotFlag   string

	rememberCmd = &cobra.Command{
		Use:   "remember [message]",
		Short: "Extract and store memories from a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd.Context())

			if err != nil {
				return err
			}

			records, err := manager.Remember(cmd.Context(), userFlag, args[0])

			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("nothing worth remembering")
				return nil
			}

			for _, record := range records {
				fmt.Printf("%s  [%s] %s\n", record.ID, record.Type, record.Text)
			}

			return nil
		},
	}

	searchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Search a user's memories by similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd.Context())

			if err != nil {
				return err
			}

			records, err := manager.Recall(cmd.Context(), userFlag, args[0], memory.RecallOptions{
				Limit:  limitFlag,
				Status: statusFlag,
				Type:   typeFlag,
				Slot:   slotFlag,
			})

			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("no memories found")
				return nil
			}

			for _, record := range records {
				fmt.Printf("%.3f  %s  [%s] %s\n", record.Score, record.ID, record.Type, record.Text)
			}

			return nil
		},
	}

	forgetCmd = &cobra.Command{
		Use:   "forget [id]",
		Short: "Delete a memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd.Context())

			if err != nil {
				return err
			}

			if err := manager.Forget(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Println("forgot", args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(forgetCmd)

	rememberCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User the memories belong to")
	rememberCmd.MarkFlagRequired("user")

	searchCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User whose memories to search")
	searchCmd.MarkFlagRequired("user")
	searchCmd.Flags().IntVar(&limitFlag, "limit", memory.DefaultRecallLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&statusFlag, "status", "", "Only return memories with this status")
	searchCmd.Flags().StringVar(&typeFlag, "type", "", "Only return memories of this type")
	searchCmd.Flags().StringVar(&slotFlag, "slot", "", "Only return memories for this slot")
}
