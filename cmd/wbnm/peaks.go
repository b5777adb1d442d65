package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-wbnm/pkg/results"
)

var errUnknownSelection = errors.New("unknown selection")

func (a *app) parseMeta(path string) (*results.Results, error) {
	every := a.cfg.Progress.Every
	progress := results.ProgressFunc(func(count int) {
		if every > 0 && count%every == 0 {
			a.logger.Info("hydrographs committed", zap.Int("count", count))
		}
	})

	res, err := results.ParseFile(path, results.WithLogger(a.logger), results.WithProgress(progress))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse meta file %s", path)
	}

	return res, nil
}

func parseVariable(name string) (results.Variable, error) {
	for _, v := range results.PeakVariables {
		if string(v) == name {
			return v, nil
		}
	}

	return "", errors.Wrapf(errUnknownSelection, "variable %q", name)
}

func pick(name string, available []string, what string) (string, error) {
	if len(available) == 0 {
		return "", errors.Wrapf(errUnknownSelection, "no %s in meta file", what)
	}

	if name == "" {
		return available[0], nil
	}

	for _, v := range available {
		if v == name {
			return name, nil
		}
	}

	return "", errors.Wrapf(errUnknownSelection, "%s %q", what, name)
}

func (a *app) peaksCmd() *cobra.Command {
	var subarea, aep, variable string

	cmd := &cobra.Command{
		Use:   "peaks <meta>",
		Short: "Summarise peaks per storm duration",
		Long: `peaks groups the peak values of one subarea, AEP and variable by storm duration
and prints the box statistics of each group. Subarea and AEP default to the first ones
found in the meta file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVariable(variable)
			if err != nil {
				return err
			}

			res, err := a.parseMeta(args[0])
			if err != nil {
				return err
			}

			selSubarea, err := pick(subarea, res.Peaks.Subareas(), "subarea")
			if err != nil {
				return err
			}

			selAEP, err := pick(aep, res.Peaks.AEPs(), "AEP")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, "%s %s peaks, AEP %s", selSubarea, v, selAEP)

			stats := res.Peaks.DurationStats(selSubarea, selAEP, v)
			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{
					s.Duration,
					strconv.Itoa(s.Count),
					formatFloat(s.Min),
					formatFloat(s.Q1),
					formatFloat(s.Median),
					formatFloat(s.Q3),
					formatFloat(s.Max),
					formatFloat(s.Mean),
				})
			}

			printTable(w, []string{"DURATION", "N", "MIN", "Q1", "MEDIAN", "Q3", "MAX", "MEAN"}, rows)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&subarea, "subarea", "", "subarea to summarise")
	flags.StringVar(&aep, "aep", "", "annual exceedance probability to summarise")
	flags.StringVar(&variable, "variable", string(results.VarOut), "peak variable to summarise")

	return cmd
}

func (a *app) hydrographsCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "hydrographs <meta>",
		Short: "List the hydrographs of a meta file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := results.ParseChannel(channel)
			if !ok {
				return errors.Wrapf(errUnknownSelection, "channel %q", channel)
			}

			res, err := a.parseMeta(args[0])
			if err != nil {
				return err
			}

			hs := res.Hydrographs
			w := cmd.OutOrStdout()
			printTitle(w, "%s hydrographs", humanize.Comma(int64(hs.Len())))

			var rows [][]string
			for _, subarea := range hs.Subareas() {
				for _, key := range hs.Storms(subarea) {
					h, _ := hs.Get(subarea, key)

					peak, at := "", ""
					if value, time, ok := h.Peak(c); ok {
						peak, at = formatFloat(value), formatFloat(time)
					}

					rows = append(rows, []string{
						subarea,
						h.Storm.String(),
						humanize.Comma(int64(h.Len())),
						peak,
						at,
					})
				}
			}

			printTable(w, []string{"SUBAREA", "STORM", "SAMPLES", "PEAK " + c.String(), "AT"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", results.ChannelQBottom.String(), "channel whose peak is reported")

	return cmd
}
