package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/storage"
)

var (
	inspectStorePath string
	inspectKind      string
	inspectId        string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump a stored entity by kind and id, or list every id under a kind.",
	Long: `inspect reads one record from the store at --store for the given
--kind (spec.md §6's closed kind enumeration, e.g. "experiment") and prints
its decoded fields. With --id left empty, it instead lists every id
currently stored under that kind.`,
	RunE: func(c *cobra.Command, args []string) error {
		if inspectStorePath == "" {
			return fmt.Errorf("cmd: --store is required")
		}

		store, err := storage.NewSQLiteStore(inspectStorePath)
		if err != nil {
			return fmt.Errorf("cmd: open store %s: %w", inspectStorePath, err)
		}
		defer store.Close()

		kind := ids.Kind(inspectKind)

		if inspectId == "" {
			records, err := store.List(kind)
			if err != nil {
				return fmt.Errorf("cmd: list %s: %w", kind, err)
			}
			for _, r := range records {
				fmt.Println(r.Id)
			}
			return nil
		}

		id, err := ids.Parse(inspectId)
		if err != nil {
			return fmt.Errorf("cmd: --id: %w", err)
		}

		var decoded map[string]any
		found, err := store.Read(kind, id, &decoded)
		if err != nil {
			return fmt.Errorf("cmd: read %s/%s: %w", kind, id, err)
		}
		if !found {
			return fmt.Errorf("cmd: no %s record for id %s", kind, id)
		}
		for key, value := range decoded {
			fmt.Printf("%s: %v\n", key, value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectStorePath, "store", "", "SQLite store path (required).")
	inspectCmd.Flags().StringVar(&inspectKind, "kind", string(ids.KindExperiment), "Entity kind to inspect.")
	inspectCmd.Flags().StringVar(&inspectId, "id", "", "Entity id (empty lists every id under --kind).")
	_ = inspectCmd.MarkFlagRequired("store")
}
