package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/henghegou-crypto/datamodel/internal/config"
	"github.com/henghegou-crypto/datamodel/internal/export"
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/sqlgen"
	"github.com/henghegou-crypto/datamodel/internal/store"
	"github.com/henghegou-crypto/datamodel/internal/tui"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

var (
	flagDB    string
	flagDebug bool
)

func main() {
	root := &cobra.Command{
		Use:   "datamodel [diagram]",
		Short: "Terminal ER diagram editor",
		Long: `datamodel is a terminal editor for entity-relationship diagrams.
Diagrams live in a local SQLite database and can be exported to PNG or SQL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEditor,
	}
	root.PersistentFlags().StringVar(&flagDB, "db", "", "database file (default from ~/.datamodelrc.toml)")
	root.Flags().BoolVar(&flagDebug, "debug", false, "write debug log to datamodel.log")

	root.AddCommand(listCmd(), exportCmd(), sqlCmd(), versionsCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (*store.Store, error) {
	path := flagDB
	if path == "" {
		path = cfg.DatabasePath
	}
	if path == "" {
		path = config.DefaultDatabasePath()
	}
	return store.Open(path)
}

// openDiagram loads the named diagram, falling back to the most recently
// updated one, creating a fresh diagram when the database has none.
func openDiagram(st *store.Store, cfg config.Config, name string) (*model.Diagram, viewport.Viewport, error) {
	vp := viewport.Viewport{Zoom: 1}
	infos, err := st.ListDiagrams()
	if err != nil {
		return nil, vp, err
	}
	if name != "" {
		for _, info := range infos {
			if strings.EqualFold(info.Name, name) {
				return st.LoadDiagram(info.ID)
			}
		}
		d := model.NewDiagram(name, model.RepresentationKind(cfg.DefaultKind))
		return d, vp, st.SaveDiagram(d, vp)
	}
	if len(infos) > 0 {
		return st.LoadDiagram(infos[0].ID)
	}
	d := model.NewDiagram("untitled", model.RepresentationKind(cfg.DefaultKind))
	return d, vp, st.SaveDiagram(d, vp)
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if flagDebug {
		f, err := tea.LogToFile("datamodel.log", "debug")
		if err != nil {
			return err
		}
		defer f.Close()
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	d, vp, err := openDiagram(st, cfg, name)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(cfg, st, d, vp), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List diagrams in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.ListDiagrams()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				color.Yellow("no diagrams yet")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%s  %s  %s\n",
					color.CyanString("%-30s", info.Name),
					color.New(color.Faint).Sprintf("%-12s", string(info.Kind)),
					info.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <diagram>",
		Short: "Export a diagram to PNG or plain text",
		Long:  "Export a diagram. A .txt output file gets the text rendering; anything else gets a PNG.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			d, _, err := openDiagram(st, cfg, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.ExportPath(args[0] + ".png")
			}
			ctx := geometry.Context{Kind: d.Kind}
			if strings.HasSuffix(out, ".txt") {
				err = export.ToText(d, ctx, out)
			} else {
				err = export.ToPNG(d, ctx, out)
			}
			if err != nil {
				return err
			}
			color.Green("wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file")
	return cmd
}

func sqlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sql <diagram>",
		Short: "Print CREATE TABLE statements for a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			d, _, err := openDiagram(st, cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Print(sqlgen.Generate(d))
			return nil
		},
	}
}

func versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <diagram>",
		Short: "List saved versions of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			d, _, err := openDiagram(st, cfg, args[0])
			if err != nil {
				return err
			}
			versions, err := st.ListVersions(d.ID)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				color.Yellow("no versions for %s", d.Name)
				return nil
			}
			for _, v := range versions {
				fmt.Printf("%s  %s\n",
					color.CyanString(v.CreatedAt.Format("2006-01-02 15:04:05")), v.Label)
			}
			return nil
		},
	}
}
