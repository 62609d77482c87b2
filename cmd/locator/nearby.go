package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"pharmalocator/m/internal/locator"
)

func nearbyCmd() *cobra.Command {
	var lat, lon, radius float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Print pharmacies within a radius of a coordinate as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, svc, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := svc.Nearby(cmd.Context(), lat, lon, radius)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().Float64Var(&radius, "radius", locator.DefaultRadiusKm, "search radius in kilometers (0, 50]")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}
