package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davidroman0O/goservice/codegen"
	"github.com/davidroman0O/goservice/settings"
)

type generateFlags struct {
	manifest   string
	output     string
	accessors  bool
	configPath string
}

func newGenerateCmd(root *rootFlags) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate contract declarations for the actions of a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			m, err := codegen.LoadManifest(flags.manifest)
			if err != nil {
				return err
			}
			log.Debug("loaded manifest %s: package %s, %d actions", flags.manifest, m.Package, len(m.Actions))

			accessors := flags.accessors
			if flags.configPath != "" {
				s, err := settings.Load(flags.configPath)
				if err != nil {
					return err
				}
				accessors = accessors || s.DefineContextAccessors
			}

			src, err := codegen.Generate(m, codegen.Options{
				Accessors: accessors,
				Source:    filepath.Base(flags.manifest),
			})
			if err != nil {
				return err
			}

			if flags.output == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(flags.output, src, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", flags.output, err)
			}
			log.Info("wrote %s", flags.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.manifest, "manifest", "m", "", "Path to the YAML manifest")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().BoolVar(&flags.accessors, "accessors", false, "Generate typed context accessors")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Settings file whose define_context_accessors enables accessors")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <manifest>...",
		Short: "Validate manifests without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			for _, path := range args {
				m, err := codegen.LoadManifest(path)
				if err != nil {
					return err
				}
				log.Debug("checked %s", path)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d actions)\n", path, len(m.Actions))
			}
			return nil
		},
	}

	return cmd
}
