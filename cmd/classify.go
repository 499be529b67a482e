package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/starcatalog-backend/internal/modules/habitability"
)

type classifyFlags struct {
	luminosity float64
	distanceLY float64
	separation float64
	orbitAU    float64
}

// newClassifyCmd classifies an orbit offline, without a database.
func newClassifyCmd() *cobra.Command {
	var f classifyFlags
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an orbit against a star's habitable zone",
		Example: `  starcatalog classify --luminosity 1 --distance-ly 10 --separation 1
  starcatalog classify --luminosity 4 --orbit-au 2.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&f.luminosity, "luminosity", 0, "stellar luminosity in solar units")
	cmd.Flags().Float64Var(&f.distanceLY, "distance-ly", 0, "distance to the star in light years")
	cmd.Flags().Float64Var(&f.separation, "separation", 0, "angular separation in arcseconds")
	cmd.Flags().Float64Var(&f.orbitAU, "orbit-au", 0, "orbital distance in AU")
	_ = cmd.MarkFlagRequired("luminosity")
	cmd.MarkFlagsMutuallyExclusive("separation", "orbit-au")
	cmd.MarkFlagsOneRequired("separation", "orbit-au")
	return cmd
}

func runClassify(cmd *cobra.Command, f classifyFlags, out io.Writer) error {
	var in habitability.OrbitInput
	if cmd.Flags().Changed("separation") {
		in.AngularSeparationArcsec = &f.separation
		if cmd.Flags().Changed("distance-ly") {
			in.DistanceLY = &f.distanceLY
		}
	} else {
		in.OrbitalDistanceAU = &f.orbitAU
	}

	a, err := habitability.Assess(&f.luminosity, in)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
