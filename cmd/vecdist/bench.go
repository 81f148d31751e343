package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/internal/simd"
	"github.com/hupe1980/vecdist/testutil"
)

// sink keeps benchmark results alive.
var sink float32

func newBenchCmd() *cobra.Command {
	var (
		dim        int
		iterations int
		types      string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure every kernel tier on random vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dim <= 0 || iterations <= 0 {
				return fmt.Errorf("dim and iterations must be positive")
			}

			var selected []distance.ElementType
			for _, s := range strings.Split(types, ",") {
				t, err := distance.ParseElementType(s)
				if err != nil {
					return err
				}
				selected = append(selected, t)
			}

			rng := testutil.NewRNG(seed)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "type\ttier\tmetric\tns/op\n")
			for _, t := range selected {
				var x, y []byte
				switch t {
				case distance.Int8:
					x, y = randomPair[int8](rng, dim)
				case distance.Uint8:
					x, y = randomPair[uint8](rng, dim)
				case distance.Int16:
					x, y = randomPair[int16](rng, dim)
				case distance.Float32:
					x, y = randomPair[float32](rng, dim)
				}
				if err := benchType(w, t, x, y, dim, iterations); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&dim, "dim", 768, "vector dimension")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 200000, "distance calls per measurement")
	cmd.Flags().StringVar(&types, "type", "int8,uint8,int16,float32", "comma-separated element types")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}

func randomPair[E distance.Element](rng *testutil.RNG, dim int) ([]byte, []byte) {
	return distance.Bytes(testutil.Vector[E](rng, dim)), distance.Bytes(testutil.Vector[E](rng, dim))
}

func benchType(w io.Writer, t distance.ElementType, a, b []byte, dim, iterations int) error {
	for _, tier := range []distance.Tier{distance.TierScalar, distance.TierNarrow, distance.TierWide} {
		marker := ""
		if tier == simd.ActiveTier() {
			marker = "*"
		}
		e := distance.New(distance.WithTier(tier))
		for _, m := range []distance.Metric{distance.MetricL2, distance.MetricCosine} {
			f, err := e.Func(m, t)
			if err != nil {
				return err
			}
			start := time.Now()
			var acc float32
			for range iterations {
				acc += f(a, b, dim)
			}
			elapsed := time.Since(start)
			sink = acc
			fmt.Fprintf(w, "%s\t%s%s\t%s\t%.1f\n", t, tier, marker, m, float64(elapsed.Nanoseconds())/float64(iterations))
		}
	}
	return nil
}
