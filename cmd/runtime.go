package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/api"
	"github.com/spinforge/partnerctl/internal/config"
	"github.com/spinforge/partnerctl/internal/export"
	"github.com/spinforge/partnerctl/internal/listview"
	"github.com/spinforge/partnerctl/internal/session"
	"github.com/spinforge/partnerctl/internal/ui"
)

// runtime bundles what every command needs: loaded config, the profile
// store, and an API client whose token source resolves per request.
type runtime struct {
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	apiURL string
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stateDir, err := config.StateDir()
	if err != nil {
		return nil, err
	}

	store, err := session.Open(session.DefaultPath(stateDir))
	if err != nil {
		return nil, err
	}

	profile := cfg.Profile
	if flagProfile != "" {
		profile = flagProfile
	}

	apiURL := cfg.APIURL
	if p := storeProfile(store, profile); p != nil && p.APIURL != "" {
		apiURL = p.APIURL
	} else if p := store.Current(); p != nil && p.APIURL != "" {
		apiURL = p.APIURL
	}

	tokens := &session.TokenSource{
		Override: flagToken,
		EnvVar:   cfg.TokenEnv,
		Store:    store,
		Profile:  profile,
	}

	client := api.NewClient(apiURL, tokens, time.Duration(cfg.TimeoutSecs)*time.Second)

	return &runtime{cfg: cfg, store: store, client: client, apiURL: apiURL}, nil
}

func storeProfile(store *session.Store, name string) *session.Profile {
	for _, p := range store.Profiles() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// profileName returns the profile commands should write to.
func (rt *runtime) profileName() string {
	if flagProfile != "" {
		return flagProfile
	}
	return rt.cfg.Profile
}

// findOnSomePage walks pages until the controller holds the row with the
// given id. Toggles read the current field value from the held page, so
// the row must be present before a toggle can be issued.
func findOnSomePage[T any](ctx context.Context, ctrl *listview.Controller[T], id string) error {
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	for {
		if ctrl.Has(id) {
			return nil
		}
		page := ctrl.Page()
		if page >= ctrl.TotalPages() {
			return fmt.Errorf("no row with id %s", id)
		}
		if err := ctrl.SetPage(ctx, page+1); err != nil {
			return err
		}
	}
}

// listOpts carries the shared list flags.
type listOpts struct {
	page        int
	search      string
	filters     map[string]string
	sortKey     string
	sortDesc    bool
	interactive bool
	exportAs    string
}

func registerListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page to fetch")
	cmd.Flags().String("search", "", "Search within the fetched page")
	cmd.Flags().StringToString("filter", nil, "Filters as name=value (value 'all' clears)")
	cmd.Flags().String("sort", "", "Sort key (reorders the fetched page only)")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().BoolP("interactive", "i", false, "Browse interactively")
	cmd.Flags().String("export", "", "Export visible rows (csv or json)")
}

func readListFlags(cmd *cobra.Command) listOpts {
	page, _ := cmd.Flags().GetInt("page")
	search, _ := cmd.Flags().GetString("search")
	filters, _ := cmd.Flags().GetStringToString("filter")
	sortKey, _ := cmd.Flags().GetString("sort")
	sortDesc, _ := cmd.Flags().GetBool("desc")
	interactive, _ := cmd.Flags().GetBool("interactive")
	exportAs, _ := cmd.Flags().GetString("export")

	return listOpts{
		page:        page,
		search:      search,
		filters:     filters,
		sortKey:     sortKey,
		sortDesc:    sortDesc,
		interactive: interactive,
		exportAs:    exportAs,
	}
}

// listPage binds one entity into the shared list command body.
type listPage[T any] struct {
	entity  string
	config  listview.Config[T]
	toggles map[string]listview.ToggleSpec[T]
	columns []string
	cells   func(T) []string
}

func runList[T any](rt *runtime, p listPage[T], opts listOpts) error {
	ctx := context.Background()

	ctrl := listview.NewController(rt.client, p.config)
	if err := ctrl.Seed(opts.page, opts.search, opts.filters); err != nil {
		return err
	}

	var coord *listview.Coordinator[T]
	if p.toggles != nil {
		coord = listview.NewCoordinator(ctrl, p.toggles, nil)
	}

	if opts.interactive {
		toggleFields := make([]string, 0, len(p.toggles))
		for field := range p.toggles {
			toggleFields = append(toggleFields, field)
		}
		page := &ui.BrowsePage[T]{
			Entity:       p.entity,
			Ctrl:         ctrl,
			Coord:        coord,
			Columns:      p.columns,
			Cells:        p.cells,
			ExportPath:   rt.cfg.ExportPath,
			ToggleFields: toggleFields,
		}
		return page.Run(ctx, os.Stdout)
	}

	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	if opts.sortKey != "" {
		ctrl.SetSort(opts.sortKey)
		if opts.sortDesc {
			ctrl.SetSort(opts.sortKey)
		}
	}

	visible := ctrl.VisibleRows()
	cells := make([][]string, 0, len(visible))
	for _, row := range visible {
		cells = append(cells, p.cells(row))
	}

	ui.RenderTable(os.Stdout, p.columns, cells)
	fmt.Println(ui.PageSummary(ctrl.Page(), ctrl.TotalPages(), len(visible), ctrl.Total()))

	switch opts.exportAs {
	case "":
	case "csv":
		path, err := export.ToCSVFile(rt.cfg.ExportPath, p.entity, p.columns, cells)
		if err != nil {
			return err
		}
		ui.Successf(os.Stdout, "exported %d rows to %s", len(visible), path)
	case "json":
		path, err := export.ToJSONFile(rt.cfg.ExportPath, p.entity, visible)
		if err != nil {
			return err
		}
		ui.Successf(os.Stdout, "exported %d rows to %s", len(visible), path)
	default:
		return fmt.Errorf("unknown export format %q (csv or json)", opts.exportAs)
	}

	return nil
}
