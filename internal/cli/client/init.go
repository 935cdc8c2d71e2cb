package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	var user, schoolID, grade string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save the server address and learner profile",
		Long:  "Stores the API URL and learner details in the user config directory so later commands can omit them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			if apiURL == "" {
				apiURL = defaultAPIURL
			}
			cfg := &GlobalConfig{APIURL: apiURL, User: user, SchoolID: schoolID, Grade: grade}
			if err := SaveGlobalConfig(cfg); err != nil {
				return err
			}
			path, _ := GetConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Learner name")
	cmd.Flags().StringVar(&schoolID, "school", "", "School ID")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade, e.g. 4")
	return cmd
}
