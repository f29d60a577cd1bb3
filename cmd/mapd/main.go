// mapd is the dev companion server for the campus map client. It serves the
// node directory, path computation, room occupancy and schedule search over
// the REST interface the client consumes.
package main

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/7mk4a/college-map/internal/api"
	"github.com/7mk4a/college-map/internal/mapdata"
	"github.com/7mk4a/college-map/internal/route"
	"github.com/7mk4a/college-map/internal/schedule"
)

var rootCmd = &cobra.Command{
	Use:   "mapd",
	Short: "Campus map REST server",
	Long: `mapd serves the campus building graph over REST: node directory,
timed path computation with turn-by-turn directions, live room occupancy
and free-text schedule search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		graph, err := mapdata.Load(viper.GetString("map_file"))
		if err != nil {
			return err
		}
		store, err := schedule.Load(viper.GetString("schedule_file"))
		if err != nil {
			return err
		}
		log.Infof("loaded %d nodes, %d schedule entries", len(graph.Nodes), len(store.Entries))

		cfg := api.DefaultConfig(viper.GetString("addr"))
		handlers := api.NewHandlers(graph, route.NewEngine(graph), store)
		return api.ListenAndServe(api.NewServer(cfg, handlers))
	},
}

func setupLogger() {
	switch strings.ToLower(viper.GetString("log_level")) {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	default:
		log.SetLevel(log.INFO)
	}
}

func init() {
	rootCmd.Flags().String("addr", "127.0.0.1:5000", "listen address")
	rootCmd.Flags().String("map-file", "data/college_map.yaml", "building graph YAML file")
	rootCmd.Flags().String("schedule-file", "data/schedule.yaml", "lecture schedule YAML file")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("addr", rootCmd.Flags().Lookup("addr"))
	viper.BindPFlag("map_file", rootCmd.Flags().Lookup("map-file"))
	viper.BindPFlag("schedule_file", rootCmd.Flags().Lookup("schedule-file"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))

	viper.SetEnvPrefix("COLLEGEMAP")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
