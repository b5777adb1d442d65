package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-wbnm/pkg/catchment"
	"github.com/askiada/go-wbnm/pkg/catchment/drawer"
	"github.com/askiada/go-wbnm/pkg/runfile"
)

func (a *app) loadModel(path string) (*catchment.Model, error) {
	rf, err := runfile.ReadFile(path, runfile.WithLogger(a.logger))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read runfile %s", path)
	}

	m, err := catchment.Build(rf, catchment.WithLogger(a.logger))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build catchment of %s", path)
	}

	return m, nil
}

func (a *app) runfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runfile <path>",
		Short: "Summarise a runfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}

			rf := m.Runfile()
			w := cmd.OutOrStdout()

			printTitle(w, "%s (%d subareas)", m.Name(), len(m.Nodes()))
			printTable(w, []string{"STATUS", "VALUE"}, [][]string{
				{"name", rf.Status.Name},
				{"version", rf.Status.Version},
				{"last edit", rf.Status.LastEdit},
				{"path", rf.Status.Pathname},
				{"structures", humanize.Comma(int64(len(rf.LocalStructures.Structures)))},
			})

			rows := make([][]string, 0, len(m.Nodes()))
			for _, node := range m.Nodes() {
				total, err := m.ContributingArea(node.Name)
				if err != nil {
					return err
				}

				routing := "none"
				if fp, ok := m.Flowpath(node.Name); ok {
					routing = fp.Routing.Kind().String()
				}

				area := ""
				if s, ok := m.Surface(node.Name); ok {
					area = formatFloat(s.Area)
				}

				rows = append(rows, []string{
					node.Name,
					node.Downstream,
					area,
					formatFloat(total),
					routing,
					strconv.Itoa(len(m.Structures(node.Name))),
				})
			}

			printTable(w, []string{"SUBAREA", "DOWNSTREAM", "AREA", "TOTAL AREA", "ROUTING", "STRUCTURES"}, rows)

			return nil
		},
	}
}

func (a *app) topologyCmd() *cobra.Command {
	var dotPath string

	cmd := &cobra.Command{
		Use:   "topology <path>",
		Short: "Print the routing order of a runfile and optionally export it as DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}

			order, err := m.RoutingOrder()
			if err != nil {
				return errors.Wrap(err, "unable to compute routing order")
			}

			w := cmd.OutOrStdout()
			printTitle(w, "%s routing order", m.Name())

			rows := make([][]string, 0, len(order))
			for i, name := range order {
				path, err := m.PathToOutlet(name)
				if err != nil {
					return err
				}

				rows = append(rows, []string{strconv.Itoa(i + 1), name, strconv.Itoa(len(path) - 1)})
			}

			printTable(w, []string{"#", "SUBAREA", "HOPS TO OUTLET"}, rows)

			if dotPath == "" {
				return nil
			}

			err = drawer.DrawFile(dotPath, m)
			if err != nil {
				return errors.Wrapf(err, "unable to write %s", dotPath)
			}

			a.logger.Info("topology exported", zap.String("path", dotPath))

			return nil
		},
	}

	cmd.Flags().StringVar(&dotPath, "dot", "", "write the network as a DOT file")

	return cmd
}
