package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/atzufuki/alexi/pkg/conf"
	"github.com/atzufuki/alexi/pkg/defaults"
	"github.com/atzufuki/alexi/pkg/loaders"
	"github.com/atzufuki/alexi/pkg/template"
	"github.com/atzufuki/alexi/pkg/urls"
	"github.com/atzufuki/alexi/pkg/views"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var verbose bool

var rootCmd = cobra.Command{
	Use:   "alexi",
	Short: "Template rendering and URL routing tools",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

var (
	renderDirs    []string
	renderContext string
	renderAST     bool
)

var renderCmd = cobra.Command{
	Use:   "render [template]",
	Short: "Render a template with an optional YAML context",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no template specified")
		}
		name := args[0]

		loader := &loaders.FilesystemLoader{Dirs: renderDirs}
		src, err := loader.Load(name)
		if err != nil {
			return err
		}

		if renderAST {
			doc, err := template.Parse(src)
			if err != nil {
				return err
			}
			fmt.Print(template.Pretty(doc))
			return nil
		}

		ctx := template.Context{}
		if renderContext != "" {
			ctx, err = loadContextFile(renderContext)
			if err != nil {
				return err
			}
		}

		out, err := template.NewRenderer(loader).RenderSource(src, ctx)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func loadContextFile(path string) (template.Context, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decoding context file %q: %w", path, err)
	}
	return template.NewContextFromAny(m), nil
}

var routesURLConf string

var routesCmd = cobra.Command{
	Use:   "routes",
	Short: "Inspect the URL configuration",
}

// loadRoutes loads the URL conf with a stub resolver; route inspection
// does not need live views.
func loadRoutes() ([]urls.Pattern, error) {
	return conf.LoadURLConf(routesURLConf, nil, func(name string) (urls.ViewFunc, error) {
		return func(w http.ResponseWriter, r *http.Request, params map[string]string) {}, nil
	})
}

var routesListCmd = cobra.Command{
	Use:   "list",
	Short: "List all routes in declaration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns, err := loadRoutes()
		if err != nil {
			return err
		}
		for _, e := range urls.List(patterns) {
			name := e.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%-30s %s\n", name, e.Route)
		}
		return nil
	},
}

var routesResolveCmd = cobra.Command{
	Use:   "resolve [path]",
	Short: "Resolve a request path to a route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no path specified")
		}
		patterns, err := loadRoutes()
		if err != nil {
			return err
		}
		m := urls.Resolve(args[0], patterns)
		if m == nil {
			return fmt.Errorf("no route matches %q", args[0])
		}
		fmt.Printf("route: %s\n", m.Name)
		for k, v := range m.Params {
			fmt.Printf("param: %s=%s\n", k, v)
		}
		return nil
	},
}

var routesReverseCmd = cobra.Command{
	Use:   "reverse [name] [key=value]...",
	Short: "Build the URL for a named route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no route name specified")
		}
		patterns, err := loadRoutes()
		if err != nil {
			return err
		}
		params := map[string]string{}
		for _, kv := range args[1:] {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 || parts[0] == "" {
				return fmt.Errorf("invalid parameter %q, expected key=value", kv)
			}
			params[parts[0]] = parts[1]
		}
		path, err := urls.Reverse(args[0], params, patterns)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var serveConfig string

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Serve templates over HTTP using the configured routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := conf.LoadSettings(serveConfig)
		if err != nil {
			return err
		}

		loader := loaders.ChainLoader{
			&loaders.FilesystemLoader{Dirs: settings.TemplateDirs},
			defaults.Loader(),
		}
		rend := template.NewRenderer(loader)

		// By convention the url conf's view names are template names:
		// path("about/", view="about.html", name="about").
		patterns, err := conf.LoadURLConf(settings.URLConf, nil, func(name string) (urls.ViewFunc, error) {
			return views.TemplateView(rend, name, nil), nil
		})
		if err != nil {
			return err
		}

		handler := &views.Handler{
			Patterns: patterns,
			Renderer: rend,
			Debug:    settings.Debug,
		}
		slog.Info("listening", "addr", settings.Addr, "routes", len(urls.List(patterns)))
		return http.ListenAndServe(settings.Addr, handler)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	renderCmd.Flags().StringArrayVar(&renderDirs, "dir", []string{"."}, "Template directory to search (repeatable)")
	renderCmd.Flags().StringVar(&renderContext, "context", "", "Path to a YAML context file")
	renderCmd.Flags().BoolVar(&renderAST, "ast", false, "Print the parsed AST instead of rendering")
	rootCmd.AddCommand(&renderCmd)

	routesCmd.PersistentFlags().StringVar(&routesURLConf, "urls", "urls.star", "Path to the URL configuration file")
	routesCmd.AddCommand(&routesListCmd)
	routesCmd.AddCommand(&routesResolveCmd)
	routesCmd.AddCommand(&routesReverseCmd)
	rootCmd.AddCommand(&routesCmd)

	serveCmd.Flags().StringVar(&serveConfig, "config", "settings.yaml", "Path to the settings file")
	rootCmd.AddCommand(&serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
