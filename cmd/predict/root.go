package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"property-estimator/internal/config"
	"property-estimator/internal/logger"
	"property-estimator/internal/service"
)

func NewRootCmd() *cobra.Command {
	var (
		configPath string
		sets       []string
		listFields bool
	)

	cmd := &cobra.Command{
		Use:           "predict",
		Short:         "Estimate a property price from feature values",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appLog, err := logger.Open(cfg.Logging.File, cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer appLog.Close()

			src, closeSource, err := service.OpenSource(cmd.Context(), cfg.Dataset)
			if err != nil {
				return err
			}
			defer closeSource()

			out := cmd.OutOrStdout()
			s, err := service.NewBuilder(cfg, src, appLog).Build(cmd.Context())
			if err != nil {
				if f, ok := service.AsFailure(err); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), f.UserMessage())
				}
				return err
			}

			if listFields {
				for _, f := range s.FieldFailures {
					fmt.Fprintln(cmd.ErrOrStderr(), f.UserMessage())
				}
				for _, f := range s.Layout.Fields {
					fmt.Fprintf(out, "%s\t%s\t%s\n", f.Name, f.Kind, describeWidget(f.Widget.Format(f.Widget.Default), f.Widget.Min, f.Widget.Max))
				}
				return nil
			}

			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			_, est, issues, err := s.Submit(func(name string) (string, bool) {
				v, ok := values[name]
				return v, ok
			})
			for _, issue := range issues {
				fmt.Fprintln(cmd.ErrOrStderr(), issue.Error())
			}
			if err != nil {
				if f, ok := service.AsFailure(err); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), f.UserMessage())
				}
				return err
			}
			fmt.Fprintln(out, est.Message())
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to estimator.yaml")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "feature value as name=value (repeatable)")
	cmd.Flags().BoolVar(&listFields, "fields", false, "list the form fields instead of predicting")

	return cmd
}

func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", s)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

func describeWidget(def string, min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("default=%s range=[%g, %g]", def, *min, *max)
	case min != nil:
		return fmt.Sprintf("default=%s min=%g", def, *min)
	case max != nil:
		return fmt.Sprintf("default=%s max=%g", def, *max)
	}
	return "default=" + def
}
