package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/listing"
	"logistics-console/internal/service/ordering"
)

func newOrdersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect, create and assign orders",
	}
	cmd.AddCommand(
		newOrdersListCommand(rt),
		newOrdersShowCommand(rt),
		newOrdersTrackCommand(rt),
		newOrdersCreateCommand(rt),
		newOrdersAssignCommand(rt),
	)
	return cmd
}

type pageFlags struct {
	page int
	size int
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.size, "size", listing.DefaultPageSize, "page size")
}

type pager interface {
	SetPageSize(n int) error
	GoTo(page int)
}

func (p pageFlags) apply(v pager) error {
	if err := v.SetPageSize(p.size); err != nil {
		return err
	}
	v.GoTo(p.page)
	return nil
}

// inlineError reports a list failure that left the view empty.
func inlineError(w io.Writer, err error, status func() (bool, bool, string)) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrUnauthenticated) {
		return err
	}
	_, _, msg := status()
	fmt.Fprintln(w, msg)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", apperr.ErrInvalid, s)
	}
	return id, nil
}

func newOrdersListCommand(rt *runtime) *cobra.Command {
	var (
		pf     pageFlags
		filter listing.OrderFilter
		date   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders with filters and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bucket, err := listing.ParseDateBucket(date)
			if err != nil {
				return err
			}
			filter.Date = bucket
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			if err := pf.apply(c.Orders); err != nil {
				return err
			}
			if err := inlineError(cmd.ErrOrStderr(), c.Orders.Load(cmd.Context()), c.Orders.Status); err != nil {
				return err
			}

			page := c.Orders.Query(filter)
			tw := newTable(cmd.OutOrStdout(), "ID", "TRACKING", "STATUS", "ORIGIN", "DESTINATION", "TYPE", "CREATED")
			for _, o := range page.Items {
				row(tw, strconv.FormatInt(o.ID, 10), o.TrackingCode, o.Status,
					domain.ExtractCityAndDepartment(o.OriginAddress), domain.ExtractCityAndDepartment(o.DestinationAddress),
					o.Package.Type, dateLabel(o.CreatedAt))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pageFooter(cmd.OutOrStdout(), page)
			return nil
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&filter.Search, "search", "", "match id, tracking code, recipient or address")
	cmd.Flags().StringVar(&filter.Status, "status", "", "exact status, case-insensitive")
	cmd.Flags().StringVar(&filter.PackageType, "type", "", "package type")
	cmd.Flags().StringVar(&date, "date", "", "today, yesterday, lastweek or lastmonth")
	return cmd
}

func newOrdersShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an order with its route, carrier and history",
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
			view, err := c.OrderDetail.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printOrder(out, view.Order)
			fmt.Fprintf(out, "route:       %s\n", view.RouteLabel())
			fmt.Fprintf(out, "carrier:     %s\n", view.CarrierLabel())
			if c.Policy.Allows(view.Order) {
				fmt.Fprintf(out, "assign with: logistics-console orders assign %d\n", id)
			}
			printHistory(out, view.History)
			return nil
		},
	}
}

func printOrder(out io.Writer, o domain.Order) {
	fmt.Fprintf(out, "order %d (%s)\n", o.ID, o.Status)
	fmt.Fprintf(out, "tracking:    %s\n", orEmpty(o.TrackingCode))
	fmt.Fprintf(out, "origin:      %s\n", orEmpty(o.OriginAddress))
	fmt.Fprintf(out, "destination: %s\n", orEmpty(o.DestinationAddress))
	fmt.Fprintf(out, "package:     %s, %.2f kg, %s\n", orEmpty(o.Package.Type), o.Package.Weight, orEmpty(o.Package.Dimensions))
	fmt.Fprintf(out, "recipient:   %s, %s\n", orEmpty(o.Recipient.Name), orEmpty(o.Recipient.Phone))
	fmt.Fprintf(out, "created:     %s\n", dateLabel(o.CreatedAt))
}

func printHistory(out io.Writer, history []domain.StatusEvent) {
	if len(history) == 0 {
		return
	}
	fmt.Fprintln(out, "history:")
	tw := newTable(out, "  WHEN", "STATUS", "DESCRIPTION")
	for _, e := range history {
		row(tw, "  "+dateLabel(e.Timestamp), e.Status, e.DescriptionOrDefault())
	}
	_ = tw.Flush()
}

func newOrdersTrackCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "track CODE",
		Short: "Look up an order by tracking code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			view, err := c.Tracking.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printOrder(out, view.Order)
			if view.Order.CarrierName != "" {
				fmt.Fprintf(out, "carrier:     %s, %s, %s\n", view.Order.CarrierName, orEmpty(view.Order.VehicleType), orEmpty(view.Order.LicensePlate))
			}
			printHistory(out, view.History)
			return nil
		},
	}
}

func newOrdersCreateCommand(rt *runtime) *cobra.Command {
	var f ordering.Form
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			msg, err := c.Ordering.Create(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.PackageWeight, "weight", "", "package weight in kg")
	fl.StringVar(&f.PackageDimensions, "dimensions", "", "package dimensions, e.g. 30x20x10")
	fl.StringVar(&f.PackageType, "type", "", "package type")
	fl.StringVar(&f.OriginDepartment, "origin-department", "", "origin department")
	fl.StringVar(&f.OriginCity, "origin-city", "", "origin city")
	fl.StringVar(&f.OriginStreet, "origin-address", "", "origin street address")
	fl.StringVar(&f.DestinationDepartment, "destination-department", "", "destination department")
	fl.StringVar(&f.DestinationCity, "destination-city", "", "destination city")
	fl.StringVar(&f.DestinationStreet, "destination-address", "", "destination street address")
	fl.StringVar(&f.RecipientName, "recipient-name", "", "recipient name")
	fl.StringVar(&f.RecipientPhone, "recipient-phone", "", "recipient phone")
	return cmd
}

func newOrdersAssignCommand(rt *runtime) *cobra.Command {
	var sel assignment.Selection
	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign a route and a carrier to an order",
		Long: "Without --route and --carrier the available options are listed.\n" +
			"With both the assignment is submitted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			view, err := c.OrderDetail.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			ctrl := c.Assignments.Get(id)
			defer c.Assignments.Close(id)
			if err := ctrl.Open(cmd.Context(), view.Order); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sel.RouteID == "" && sel.CarrierID == "" {
				printOptions(out, ctrl.Snapshot())
				return nil
			}
			if err := ctrl.Select(sel); err != nil {
				return err
			}
			if err := ctrl.Submit(cmd.Context()); err != nil {
				if snap := ctrl.Snapshot(); snap.Error != "" {
					return apperr.WithMessage(snap.Error, err)
				}
				return err
			}
			fmt.Fprintln(out, ctrl.Snapshot().Success)

			// the order is refetched once the refresh delay has passed
			if err := ctrl.AwaitRefresh(cmd.Context()); err != nil {
				return err
			}
			if after, ok := c.OrderDetail.Refetched(id); ok {
				fmt.Fprintf(out, "route:   %s\n", after.RouteLabel())
				fmt.Fprintf(out, "carrier: %s\n", after.CarrierLabel())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sel.RouteID, "route", "", "route id")
	cmd.Flags().StringVar(&sel.CarrierID, "carrier", "", "carrier id")
	return cmd
}

func printOptions(out io.Writer, snap assignment.Snapshot) {
	fmt.Fprintln(out, "routes:")
	if snap.RoutesError != "" {
		fmt.Fprintln(out, "  "+snap.RoutesError)
	}
	tw := newTable(out, "  ID", "NAME", "ORIGIN", "DESTINATION")
	for _, r := range snap.Routes {
		row(tw, "  "+strconv.FormatInt(r.ID, 10), r.Name, r.Origin, r.Destination)
	}
	_ = tw.Flush()

	fmt.Fprintln(out, "carriers:")
	if snap.CarriersError != "" {
		fmt.Fprintln(out, "  "+snap.CarriersError)
	}
	tw = newTable(out, "  ID", "NAME", "STATUS", "VEHICLE")
	for _, c := range snap.Carriers {
		row(tw, "  "+strconv.FormatInt(c.ID, 10), c.Name, c.Status, c.Vehicle.Type)
	}
	_ = tw.Flush()
}

func newLocationsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations [DEPARTMENT]",
		Short: "List departments, or the cities of one department",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.use(cmd)
			if err != nil {
				return err
			}
			var names []string
			if len(args) == 0 {
				names, err = c.Ordering.Departments(cmd.Context())
			} else {
				names, err = c.Ordering.Cities(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	return cmd
}
