package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/service/listing"
)

func newCarriersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carriers",
		Short: "List, inspect and manage carriers",
	}
	cmd.AddCommand(
		newCarriersListCommand(rt),
		newCarriersShowCommand(rt),
		newCarriersSetStatusCommand(rt),
		newCarriersDeleteCommand(rt),
	)
	return cmd
}

func newCarriersListCommand(rt *runtime) *cobra.Command {
	var (
		pf     pageFlags
		filter listing.CarrierFilter
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List carriers with filters and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			if err := pf.apply(c.Carriers); err != nil {
				return err
			}
			if err := inlineError(cmd.ErrOrStderr(), c.Carriers.Load(cmd.Context()), c.Carriers.Status); err != nil {
				return err
			}

			page := c.Carriers.Query(filter)
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "STATUS", "VEHICLE", "PLATE", "CITY", "ACTIVE")
			for _, cr := range page.Items {
				row(tw, strconv.FormatInt(cr.ID, 10), cr.Name, cr.Status, cr.Vehicle.Type,
					cr.Vehicle.Plate, orEmpty(cr.CurrentCity), strconv.Itoa(cr.Stats.ActiveOrders))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page)
			return nil
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&filter.Search, "search", "", "match name, document, email, plate or city")
	cmd.Flags().StringVar(&filter.Status, "status", "", "exact status, case-insensitive")
	return cmd
}

func newCarriersShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a carrier with its active orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			view, err := c.CarrierInfo.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			cr := view.Carrier
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "carrier %d: %s (%s)\n", cr.ID, cr.Name, cr.Status)
			fmt.Fprintf(out, "contact:   %s, %s\n", orEmpty(cr.Phone), orEmpty(cr.Email))
			fmt.Fprintf(out, "document:  %s\n", orEmpty(cr.DocumentID))
			fmt.Fprintf(out, "vehicle:   %s %s, plate %s, %.0f kg\n", orEmpty(cr.Vehicle.Type), cr.Vehicle.Model, orEmpty(cr.Vehicle.Plate), cr.Vehicle.Capacity)
			fmt.Fprintf(out, "city:      %s\n", orEmpty(cr.CurrentCity))
			fmt.Fprintf(out, "completed: %d, distance %.1f km, rating %.1f\n", cr.Stats.CompletedOrders, cr.Stats.TotalDistance, cr.Stats.Rating)
			if len(view.ActiveOrders) == 0 {
				fmt.Fprintln(out, "no active orders")
				return nil
			}
			tw := newTable(out, "ORDER", "TRACKING", "STATUS", "DESTINATION")
			for _, o := range view.ActiveOrders {
				row(tw, strconv.FormatInt(o.ID, 10), o.TrackingCode, o.Status, domain.ExtractCityAndDepartment(o.DestinationAddress))
			}
			return tw.Flush()
		},
	}
}

func newCarriersSetStatusCommand(rt *runtime) *cobra.Command {
	states := make([]string, 0, len(domain.CarrierStates()))
	for _, s := range domain.CarrierStates() {
		states = append(states, s.Label())
	}
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Change a carrier status (" + strings.Join(states, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			view, err := c.CarrierInfo.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			c.StatusModal.Open(view.Carrier)
			if err := c.StatusModal.Choose(args[1]); err != nil {
				return err
			}
			if err := c.StatusModal.Submit(cmd.Context()); err != nil {
				if snap := c.StatusModal.Snapshot(); snap.Error != "" {
					return apperr.WithMessage(snap.Error, err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.StatusModal.Snapshot().Success)
			return nil
		},
	}
}

func newCarriersDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a carrier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			msg, err := c.Carriers.Delete(cmd.Context(), id)
			if err != nil {
				if msg != "" {
					return apperr.WithMessage(msg, err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newRoutesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes orders can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			res := c.Backend.ListRoutes(cmd.Context())
			if !res.OK() {
				return apperr.WithMessage(res.Message("No se pudieron cargar las rutas."), res.Err())
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "ORIGIN", "DESTINATION", "DISTANCE", "ETA")
			for _, r := range res.Value() {
				row(tw, strconv.FormatInt(r.ID, 10), r.Name, r.Origin, r.Destination,
					strconv.FormatFloat(r.Distance, 'f', 1, 64), orEmpty(r.EstimatedTime))
			}
			return tw.Flush()
		},
	}
}
