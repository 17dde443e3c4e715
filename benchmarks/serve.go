package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/marl-env/server"
)

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scenario over HTTP with a websocket viewer stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(scenarioName, 0)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			s := server.NewServer(ctx, addr, env)
			s.Start()
			<-ctx.Done()
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	return cmd
}
