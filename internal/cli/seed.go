package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

// SeedFile is the YAML layout accepted by "cms seed". Rows use the same
// field names as the admin forms and go through the same validation.
type SeedFile struct {
	Projects     []map[string]any          `yaml:"projects"`
	Services     []map[string]any          `yaml:"services"`
	Testimonials []map[string]any          `yaml:"testimonials"`
	ProcessSteps []map[string]any          `yaml:"process_steps"`
	Videos       []map[string]any          `yaml:"videos"`
	Sections     map[string]map[string]any `yaml:"sections"`
}

func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	return &f, nil
}

// toValues flattens a YAML row into form values. Lists become one value
// per entry and booleans use checkbox semantics.
func toValues(row map[string]any) url.Values {
	v := url.Values{}
	for k, raw := range row {
		switch x := raw.(type) {
		case nil:
		case []any:
			for _, item := range x {
				v.Add(k, fmt.Sprint(item))
			}
		case bool:
			if x {
				v.Set(k, "on")
			}
		default:
			v.Set(k, fmt.Sprint(x))
		}
	}
	return v
}

func label(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := row[k].(string); ok && s != "" {
			return s
		}
	}
	return "?"
}

type seedKind struct {
	table  domain.Table
	rows   []map[string]any
	keys   []string
	create func(context.Context, url.Values) actions.Result
}

func newSeedCommand(deps Deps) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load content rows and sections from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return wrapExit(ExitCommandError, "open seed file", err)
			}
			defer fh.Close()
			seed, err := ParseSeed(fh)
			if err != nil {
				return wrapExit(ExitCommandError, "parse seed file", err)
			}

			app, err := deps.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return runSeed(cmd, app, seed)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSeed(cmd *cobra.Command, app *App, seed *SeedFile) error {
	ctx := domain.WithRole(cmd.Context(), domain.RoleAdmin)
	a := actions.New(app.Store, app.Publisher, app.Pages)
	out := cmd.OutOrStdout()
	ok, failed := color.New(color.FgGreen).Sprint("CREATE"), color.New(color.FgRed).Sprint("FAIL  ")

	kinds := []seedKind{
		{domain.TableProjects, seed.Projects, []string{"slug", "title"}, a.CreateProject},
		{domain.TableServices, seed.Services, []string{"title"}, a.CreateService},
		{domain.TableTestimonials, seed.Testimonials, []string{"client_name"}, a.CreateTestimonial},
		{domain.TableProcessSteps, seed.ProcessSteps, []string{"title"}, a.CreateProcessStep},
		{domain.TableVideos, seed.Videos, []string{"title"}, a.CreateVideo},
	}

	failures := 0
	report := func(table, name string, res actions.Result) {
		if res.Success {
			fmt.Fprintf(out, "%s %s %s\n", ok, table, name)
			return
		}
		failures++
		fmt.Fprintf(out, "%s %s %s: %s%s\n", failed, table, name, res.Error, formatDetails(res.Details))
	}

	for _, k := range kinds {
		for _, row := range k.rows {
			report(string(k.table), label(row, k.keys...), k.create(ctx, toValues(row)))
		}
	}

	keys := make([]string, 0, len(seed.Sections))
	for key := range seed.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		report(string(domain.TableSiteContent), key, a.UpdateSiteContent(ctx, key, domain.Document(seed.Sections[key])))
	}

	if failures > 0 {
		return wrapExit(ExitFailure, fmt.Sprintf("%d seed entries rejected", failures), nil)
	}
	return nil
}

func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + details[f]
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
