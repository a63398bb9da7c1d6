package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func relayError(e *relay.Error) error {
	return errors.New(e.Message)
}

func (a *app) token(cmd *cobra.Command) (string, error) {
	if err := a.requireSession(); err != nil {
		return "", err
	}
	token, ok := a.sf.Session.AccessToken(cmd.Context())
	if !ok {
		return "", errors.New("session expired, log in again")
	}

	return token, nil
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the relay is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if res := a.sf.Relay.Health(cmd.Context()); !res.IsOk() {
				return relayError(res.Err())
			}
			fmt.Println("ok")

			return nil
		},
	}
}

func newServicesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List repair services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, rerr := a.sf.Relay.Services(cmd.Context()).Get()
			if rerr != nil {
				return relayError(rerr)
			}

			w := newTable()
			fmt.Fprintln(w, "SERVICE\tFROM\tTIME")
			for _, s := range catalog.RepairServices {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, util.FormatPrice(s.Price), s.Time)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println("Brands:", catalog.Brands)
			fmt.Println("Problems:", catalog.ProblemTypes)

			return nil
		},
	}
}

func newDevicesCommand(a *app) *cobra.Command {
	var req dto.RegisterDeviceRequest
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage push notification devices",
	}
	register := &cobra.Command{
		Use:   "register",
		Short: "Register an FCM token for order and booking updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token(cmd)
			if err != nil {
				return err
			}
			if res := a.sf.Relay.RegisterDevice(cmd.Context(), token, req); !res.IsOk() {
				return relayError(res.Err())
			}
			fmt.Println("Device registered")

			return nil
		},
	}
	register.Flags().StringVar(&req.FCMToken, "fcm-token", "", "FCM registration token")
	register.Flags().StringVar(&req.DeviceID, "device-id", "", "Stable device identifier")
	register.Flags().StringVar(&req.Platform, "platform", "web", "web, ios or android")
	cmd.AddCommand(register)

	return cmd
}

func newAdminCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office tools (admin accounts only)",
	}
	cmd.AddCommand(newAdminStatsCommand(a), newAdminProductCommand(a), newAdminVoidOrderCommand(a))

	return cmd
}

func newAdminStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token(cmd)
			if err != nil {
				return err
			}
			stats, rerr := a.sf.Relay.AdminStats(cmd.Context(), token).Get()
			if rerr != nil {
				return relayError(rerr)
			}

			w := newTable()
			fmt.Fprintf(w, "Orders\t%d\n", stats.TotalOrders)
			fmt.Fprintf(w, "Pending\t%d\n", stats.PendingOrders)
			fmt.Fprintf(w, "Sales\t%s\n", util.FormatPrice(stats.CompletedSales))
			fmt.Fprintf(w, "Advances\t%s\n", util.FormatPrice(stats.AdvancesCollected))
			fmt.Fprintf(w, "Products\t%d\n", stats.TotalProducts)
			statuses := make([]string, 0, len(stats.BookingsByStatus))
			for status := range stats.BookingsByStatus {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Fprintf(w, "Bookings %s\t%d\n", status, stats.BookingsByStatus[status])
			}

			return w.Flush()
		},
	}
}

func newAdminProductCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Edit the catalog",
	}

	var (
		req          dto.ProductRequest
		ram, storage string
		stock        int
		imageFile    string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ram") {
				req.RAM = &ram
			}
			if cmd.Flags().Changed("storage") {
				req.Storage = &storage
			}
			if cmd.Flags().Changed("stock") {
				req.Stock = &stock
			}
			if imageFile != "" {
				url, err := a.uploadImage(cmd, token, imageFile)
				if err != nil {
					return err
				}
				req.Image = url
			}

			product, rerr := a.sf.Relay.CreateProduct(cmd.Context(), token, req).Get()
			if rerr != nil {
				return relayError(rerr)
			}
			fmt.Printf("Added %s %s (%s)\n", product.Brand, product.Model, product.ID)

			return nil
		},
	}
	add.Flags().StringVar(&req.Brand, "brand", "", "Brand")
	add.Flags().StringVar(&req.Model, "model", "", "Model")
	add.Flags().Int64Var(&req.Price, "price", 0, "Price in rupees")
	add.Flags().StringVar(&req.Category, "category", "mobile", "mobile or accessory")
	add.Flags().StringVar(&ram, "ram", "", "RAM, e.g. 8GB")
	add.Flags().StringVar(&storage, "storage", "", "Storage, e.g. 256GB")
	add.Flags().IntVar(&stock, "stock", 0, "Units in stock")
	add.Flags().BoolVar(&req.Featured, "featured", false, "Show on the home page")
	add.Flags().StringVar(&req.Image, "image", "", "Image URL")
	add.Flags().StringVar(&imageFile, "image-file", "", "Upload this JPEG, PNG or WebP file as the image")

	del := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := a.token(cmd)
			if err != nil {
				return err
			}
			if res := a.sf.Relay.DeleteProduct(cmd.Context(), token, id); !res.IsOk() {
				return relayError(res.Err())
			}
			fmt.Println("Product deleted")

			return nil
		},
	}

	cmd.AddCommand(add, del)

	return cmd
}

func (a *app) uploadImage(cmd *cobra.Command, token, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read image")
	}

	uploaded, rerr := a.sf.Relay.UploadImage(cmd.Context(), token, filepath.Base(path), http.DetectContentType(data), bytes.NewReader(data)).Get()
	if rerr != nil {
		return "", relayError(rerr)
	}

	return uploaded.URL, nil
}

// newAdminVoidOrderCommand cancels any shopper's order by id without
// loading the order list first.
func newAdminVoidOrderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "void <order-id>",
		Short: "Cancel an order by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := a.token(cmd)
			if err != nil {
				return err
			}
			order, rerr := a.sf.Relay.CancelOrder(cmd.Context(), token, id).Get()
			if rerr != nil {
				return relayError(rerr)
			}
			fmt.Printf("Order %s is %s\n", order.ID, order.Status)

			return nil
		},
	}
}
