package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"starmobiles/internal/client/store"
	"starmobiles/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, errors.Errorf("invalid id %q", arg)
	}

	return id, nil
}

func newProductsCommand(a *app) *cobra.Command {
	var (
		filters            store.ProductFilters
		minPrice, maxPrice int64
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-price") {
				filters.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filters.MaxPrice = &maxPrice
			}

			catalog := a.sf.Catalog
			catalog.FetchProducts(cmd.Context(), &filters)
			if msg := catalog.Error(); msg != "" {
				return errors.New(msg)
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tPRODUCT\tCATEGORY\tPRICE\tSTOCK")
			for _, p := range catalog.Products() {
				stock := "-"
				if p.Stock != nil {
					stock = strconv.Itoa(*p.Stock)
				}
				featured := ""
				if p.Featured {
					featured = " *"
				}
				fmt.Fprintf(w, "%s\t%s %s%s\t%s\t%s\t%s\n", p.ID, p.Brand, p.Model, featured, p.Category, util.FormatPrice(p.Price), stock)
			}

			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filters.Category, "category", "", "mobile or accessory")
	cmd.Flags().StringVar(&filters.Brand, "brand", "", "Brand name")
	cmd.Flags().Int64Var(&minPrice, "min-price", 0, "Lowest price in rupees")
	cmd.Flags().Int64Var(&maxPrice, "max-price", 0, "Highest price in rupees")
	cmd.Flags().BoolVar(&filters.Featured, "featured", false, "Featured products only")

	return cmd
}

func newCartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			a.sf.Cart.FetchCart(cmd.Context())

			return printCart(a.sf.Cart.State())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if !a.sf.Cart.AddItem(cmd.Context(), id) {
					return cartFailure(a.sf.Cart.State())
				}

				return printCart(a.sf.Cart.State())
			},
		},
		&cobra.Command{
			Use:   "set <item-id> <quantity>",
			Short: "Change a quantity; 0 removes the item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Errorf("invalid quantity %q", args[1])
				}

				a.sf.Cart.FetchCart(cmd.Context())
				if !a.sf.Cart.UpdateQuantity(cmd.Context(), id, quantity) {
					return cartFailure(a.sf.Cart.State())
				}

				return printCart(a.sf.Cart.State())
			},
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Remove an item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				a.sf.Cart.FetchCart(cmd.Context())
				if !a.sf.Cart.RemoveItem(cmd.Context(), id) {
					return cartFailure(a.sf.Cart.State())
				}

				return printCart(a.sf.Cart.State())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if !a.sf.Cart.ClearCart(cmd.Context()) {
					return cartFailure(a.sf.Cart.State())
				}
				fmt.Println("Cart cleared")

				return nil
			},
		},
	)

	return cmd
}

func cartFailure(state store.CartState) error {
	if state.RequiresAuth {
		return errors.New("not logged in, run `storefront login` first")
	}

	return errors.New(state.Error)
}

func printCart(state store.CartState) error {
	if state.Error != "" {
		return errors.New(state.Error)
	}
	if len(state.Items) == 0 {
		fmt.Println("Your cart is empty")

		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE")
	for _, item := range state.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.ID, item.Name, item.Quantity, util.FormatPrice(item.Price*int64(item.Quantity)))
	}
	fmt.Fprintf(w, "\tTotal\t%d\t%s\n", state.TotalItems(), util.FormatPrice(state.TotalPrice()))

	return w.Flush()
}

func newBookingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List repair bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			a.sf.Bookings.FetchBookings(cmd.Context())

			state := a.sf.Bookings.State()
			if state.Error != "" {
				return errors.New(state.Error)
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tDEVICE\tPROBLEM\tWHEN\tSTATUS")
			for _, b := range state.Bookings {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s %s\t%s\n", b.ID, b.Brand, b.Model, b.ProblemType, b.PreferredDate, b.PreferredTime, b.Status)
			}

			return w.Flush()
		},
	}

	var in store.BookingInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Book a repair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.CustomerName == "" {
				if p := a.sf.Session.State().Profile; p != nil {
					in.CustomerName = p.Name
				}
			}
			res := a.sf.Bookings.AddBooking(cmd.Context(), in)
			if err := report(res.Success, res.Message); err != nil {
				return err
			}
			fmt.Println("Booking", res.BookingID)

			return nil
		},
	}
	add.Flags().StringVar(&in.CustomerName, "name", "", "Name on the ticket (defaults to the profile name)")
	add.Flags().StringVar(&in.Phone, "phone", "", "Contact number")
	add.Flags().StringVar(&in.Brand, "brand", "", "Device brand")
	add.Flags().StringVar(&in.Model, "model", "", "Device model")
	add.Flags().StringVar(&in.ProblemType, "problem", "", "Problem type, see the services list")
	add.Flags().StringVar(&in.Description, "description", "", "What happened")
	add.Flags().StringVar(&in.PreferredDate, "date", "", "Preferred date, YYYY-MM-DD")
	add.Flags().StringVar(&in.PreferredTime, "time", "", "Preferred time slot")

	var notes string
	status := &cobra.Command{
		Use:   "status <booking-id> <status>",
		Short: "Move a booking (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var adminNotes *string
			if cmd.Flags().Changed("notes") {
				adminNotes = &notes
			}
			if !a.sf.Bookings.UpdateBookingStatus(cmd.Context(), id, args[1], adminNotes) {
				return errors.New(a.sf.Bookings.State().Error)
			}
			fmt.Println("Booking updated")

			return nil
		},
	}
	status.Flags().StringVar(&notes, "notes", "", "Admin notes")

	del := &cobra.Command{
		Use:   "delete <booking-id>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.sf.Bookings.DeleteBooking(cmd.Context(), id) {
				return errors.New(a.sf.Bookings.State().Error)
			}
			fmt.Println("Booking deleted")

			return nil
		},
	}

	cmd.AddCommand(add, status, del)

	return cmd
}

func newOrdersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			a.sf.Orders.FetchOrders(cmd.Context())

			state := a.sf.Orders.State()
			if state.Error != "" {
				return errors.New(state.Error)
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tPRODUCT\tQTY\tTOTAL\tADVANCE\tSTATUS\tPAYMENT")
			for _, o := range state.Orders {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", o.ID, o.ProductName, o.Quantity,
					util.FormatPrice(o.TotalAmount), util.FormatPrice(o.AdvanceAmount), o.Status, o.PaymentStatus)
			}

			return w.Flush()
		},
	}

	var in store.OrderInput
	create := &cobra.Command{
		Use:   "create <product-id>",
		Short: "Order a product; a 20% advance confirms it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.ProductID = id
			if p := a.sf.Session.State().Profile; p != nil {
				in.CustomerName = firstNonEmpty(in.CustomerName, p.Name)
				in.Phone = firstNonEmpty(in.Phone, p.Phone)
				in.Address = firstNonEmpty(in.Address, p.Address)
			}

			res := a.sf.Orders.CreateOrder(cmd.Context(), in)
			if err := report(res.Success, res.Message); err != nil {
				return err
			}
			fmt.Printf("Order %s: total %s, advance due %s\n", res.Order.ID,
				util.FormatPrice(res.Order.TotalAmount), util.FormatPrice(res.Order.AdvanceAmount))

			return nil
		},
	}
	create.Flags().IntVar(&in.Quantity, "quantity", 1, "Units, 1 to 10")
	create.Flags().StringVar(&in.CustomerName, "name", "", "Buyer name (defaults to the profile)")
	create.Flags().StringVar(&in.Phone, "phone", "", "Contact number (defaults to the profile)")
	create.Flags().StringVar(&in.Address, "address", "", "Delivery address (defaults to the profile)")

	var paymentStatus, notes string
	status := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var payment, adminNotes *string
			if cmd.Flags().Changed("payment") {
				payment = &paymentStatus
			}
			if cmd.Flags().Changed("notes") {
				adminNotes = &notes
			}
			if !a.sf.Orders.UpdateOrderStatus(cmd.Context(), id, args[1], payment, adminNotes) {
				return errors.New(a.sf.Orders.State().Error)
			}
			fmt.Println("Order updated")

			return nil
		},
	}
	status.Flags().StringVar(&paymentStatus, "payment", "", "Payment status")
	status.Flags().StringVar(&notes, "notes", "", "Admin notes")

	cancel := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.sf.Orders.CancelOrder(cmd.Context(), id) {
				return errors.New(a.sf.Orders.State().Error)
			}
			fmt.Println("Order cancelled")

			return nil
		},
	}

	var out string
	pay := &cobra.Command{
		Use:   "pay <order-id>",
		Short: "Show the UPI code for the advance payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qr, msg := a.sf.Orders.PaymentQR(cmd.Context(), id)
			if qr == nil {
				return errors.New(msg)
			}

			fmt.Printf("Pay %s to confirm order %s\n", util.FormatPrice(qr.AdvanceAmount), qr.OrderID)
			if out != "" {
				if err := os.WriteFile(out, qr.PNG, 0o600); err != nil {
					return errors.Wrap(err, "failed to write QR image")
				}
				fmt.Println("QR code saved to", out)

				return nil
			}

			code, err := qrcode.New(qr.URI, qrcode.Medium)
			if err != nil {
				return errors.Wrap(err, "failed to render QR code")
			}
			fmt.Print(code.ToSmallString(false))
			fmt.Println(qr.URI)

			return nil
		},
	}
	pay.Flags().StringVarP(&out, "out", "o", "", "Write the QR code PNG to this file")

	cmd.AddCommand(create, status, cancel, pay)

	return cmd
}
