package benchmarks

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func SpacesCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "Print the action and observation spaces of the scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(scenarioName, 0)
			if err != nil {
				return err
			}
			if asJSON {
				bs, err := json.MarshalIndent(map[string]interface{}{
					"n":                  env.N(),
					"action_spaces":      env.ActionSpace(),
					"observation_spaces": env.ObservationSpace(),
					"shared_reward":      env.SharedReward(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(bs))
				return nil
			}
			fmt.Printf("%s: %d agents, shared reward %v\n", scenarioName, env.N(), env.SharedReward())
			obsSpaces := env.ObservationSpace()
			for i, space := range env.ActionSpace() {
				fmt.Printf("agent %d: action %s, observation %s\n", i, space, obsSpaces[i])
			}
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print the spaces as json")
	return cmd
}
