package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/models"
	"github.com/toyz/mirror/internal/registry"
	"github.com/toyz/mirror/internal/wire"
	"github.com/toyz/mirror/pkg/mirror"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]",
		Short: "Build a document and report every diagnostic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := a.document(args, 0)
			if err != nil {
				return err
			}

			model, err := a.loader.Load(path)
			if err != nil {
				return err
			}

			a.diag.Summary(path, map[string]interface{}{
				"Types":            model.Len(),
				"Bounded contexts": len(model.BoundedContexts()),
				"Relations":        model.Index().Len(),
				"Ungrouped types":  len(model.Ungrouped()),
			})
			for _, name := range model.Ungrouped() {
				a.diag.Verbose("ungrouped: %s", name)
			}
			a.diag.Success("%s is valid (fingerprint %s)", path, model.Fingerprint())
			return nil
		},
	}
}

func (a *app) describeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "describe [document] <type>",
		Short: "Show a type with its derived facts and relations",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rest, err := a.document(args, 1)
			if err != nil {
				return err
			}
			model, err := a.loader.Load(path)
			if err != nil {
				return err
			}

			view, ok := mirror.NewTypeView(model, rest[0])
			if !ok {
				return errors.NotFoundError("type", rest[0])
			}
			relations := mirror.NewRelationsView(model, rest[0])

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					mirror.TypeView
					Relations mirror.RelationsView `json:"relations"`
				}{view, relations})
			case "text":
				writeTypeView(cmd.OutOrStdout(), view, relations)
				return nil
			default:
				return errors.ConfigurationError("output", fmt.Sprintf("unknown output format %q", output)).
					WithSuggestion("use text or json")
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

// queries maps a query name to its answer. Kinds only filter the inverse
// views that accept them.
var queries = map[string]func(m *registry.DomainModel, name string, kinds []models.Kind) ([]string, error){
	"publishers": func(m *registry.DomainModel, name string, kinds []models.Kind) ([]string, error) {
		return m.Publishers(name, kinds...), nil
	},
	"listeners": func(m *registry.DomainModel, name string, kinds []models.Kind) ([]string, error) {
		return m.Listeners(name, kinds...), nil
	},
	"processors": func(m *registry.DomainModel, name string, kinds []models.Kind) ([]string, error) {
		return m.Processors(name, kinds...), nil
	},
	"referrers": func(m *registry.DomainModel, name string, kinds []models.Kind) ([]string, error) {
		return m.Referrers(name, kinds...), nil
	},
	"subtypes": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		return m.Subtypes(name), nil
	},
	"implementors": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		return m.Implementors(name), nil
	},
	"repositories": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		return m.RepositoriesFor(name), nil
	},
	"handlers": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		return m.QueryHandlersFor(name), nil
	},
	"context": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		if !m.Has(name) {
			return nil, errors.NotFoundError("type", name)
		}
		bc, ok := m.ContextOf(name)
		if !ok {
			return nil, nil
		}
		if bc.PackageName == "" {
			return []string{"."}, nil
		}
		return []string{bc.PackageName}, nil
	},
	"members": func(m *registry.DomainModel, name string, _ []models.Kind) ([]string, error) {
		if name == "." {
			name = ""
		}
		if !m.HasBoundedContext(name) {
			return nil, errors.NotFoundError("bounded context", name)
		}
		return m.Members(name), nil
	},
}

func queryNames() []string {
	return []string{"publishers", "listeners", "processors", "referrers", "subtypes",
		"implementors", "repositories", "handlers", "context", "members"}
}

func (a *app) queryCommand() *cobra.Command {
	var kindNames []string

	cmd := &cobra.Command{
		Use:   "query [document] <query> <name>",
		Short: "Answer a structural query, one type name per line",
		Long: "Answer a structural query, one type name per line.\n\nQueries: " +
			strings.Join(queryNames(), ", "),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rest, err := a.document(args, 2)
			if err != nil {
				return err
			}

			query, ok := queries[rest[0]]
			if !ok {
				return errors.ConfigurationError("query", fmt.Sprintf("unknown query %q", rest[0])).
					WithSuggestion("use one of: " + strings.Join(queryNames(), ", "))
			}

			kinds := make([]models.Kind, 0, len(kindNames))
			for _, s := range kindNames {
				k, err := models.ParseKind(s)
				if err != nil {
					return errors.ConfigurationError("kind", err.Error()).WithCause(err)
				}
				kinds = append(kinds, k)
			}

			model, err := a.loader.Load(path)
			if err != nil {
				return err
			}

			names, err := query(model, rest[1], kinds)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				a.diag.Verbose("no results for %s %s", rest[0], rest[1])
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kindNames, "kind", "k", nil, "only return types of these kinds (e.g. aggregate_root,domain_service)")
	return cmd
}

func (a *app) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a document, choosing formats by file extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loader.Load(args[0])
			if err != nil {
				return err
			}
			if err := wire.WriteFile(args[1], model); err != nil {
				return err
			}
			a.diag.Success("wrote %s (%d types)", args[1], model.Len())
			return nil
		},
	}
}

func writeTypeView(w io.Writer, view mirror.TypeView, relations mirror.RelationsView) {
	header := view.Name + " (" + view.Kind + ")"
	if view.Abstract {
		header += " abstract"
	}
	fmt.Fprintln(w, header)

	if view.Context != "" {
		fmt.Fprintf(w, "  context: %s\n", view.Context)
	}
	if len(view.Hierarchy) > 0 {
		fmt.Fprintf(w, "  hierarchy: %s\n", strings.Join(view.Hierarchy, " > "))
	}
	if len(view.Interfaces) > 0 {
		fmt.Fprintf(w, "  interfaces: %s\n", strings.Join(view.Interfaces, ", "))
	}
	for _, kv := range [][2]string{
		{"identity", view.IdentityField},
		{"version", view.VersionField},
		{"value type", view.ValueType},
		{"target", view.Target},
		{"manages", view.ManagedAggregate},
		{"provides", view.ProvidedReadModel},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "  %s: %s\n", kv[0], kv[1])
		}
	}
	if len(view.Constants) > 0 {
		fmt.Fprintf(w, "  constants: %s\n", strings.Join(view.Constants, ", "))
	}

	if len(view.Fields) > 0 {
		fmt.Fprintln(w, "  fields:")
		for _, f := range view.Fields {
			var tags []string
			if f.Identity {
				tags = append(tags, "identity")
			}
			if f.Reference != "" {
				tags = append(tags, f.Reference)
			}
			if f.DeclaredBy != view.Name {
				tags = append(tags, "from "+f.DeclaredBy)
			}
			tags = append(tags, f.Assertions...)
			line := fmt.Sprintf("    %s: %s", f.Name, f.Type)
			if len(tags) > 0 {
				line += " [" + strings.Join(tags, ", ") + "]"
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(view.Methods) > 0 {
		fmt.Fprintln(w, "  methods:")
		for _, m := range view.Methods {
			params := make([]string, len(m.Params))
			for i, p := range m.Params {
				params[i] = p.Name + " " + p.Type
			}
			line := fmt.Sprintf("    %s(%s)", m.Name, strings.Join(params, ", "))
			if m.Returns != "" {
				line += " " + m.Returns
			}
			if len(m.Publishes) > 0 {
				line += " publishes " + strings.Join(m.Publishes, ", ")
			}
			if m.Listens != "" {
				line += " listens " + m.Listens
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(relations.Incoming) > 0 {
		fmt.Fprintln(w, "  used by:")
		for _, r := range relations.Incoming {
			fmt.Fprintf(w, "    %s %s (%s)\n", r.Source, r.Relation, r.Member)
		}
	}
}
