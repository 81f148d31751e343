package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecdist"
	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/internal/simd"
	"github.com/hupe1980/vecdist/quantization"
	"github.com/hupe1980/vecdist/vectorset"
)

// setFlags are the flags of commands that read one vector set.
type setFlags struct {
	elemType  string
	quantized bool
}

func (s *setFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.elemType, "type", "t", "float32", "element type: int8, uint8, int16, float32")
	cmd.Flags().BoolVarP(&s.quantized, "quantized", "q", false, "rows are uint8 codes of a codebook stored after the header")
}

func (a *app) open(cmd *cobra.Command, name string, s setFlags) (*vecdist.Collection, error) {
	t, err := distance.ParseElementType(s.elemType)
	if err != nil {
		return nil, err
	}

	var extra []vecdist.Option
	if s.quantized {
		extra = append(extra, vecdist.WithQuantized(), vecdist.WithInstall())
	}
	opts, err := a.collectionOptions(extra...)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cmd.Context(), a.cfg.Store)
	if err != nil {
		return nil, err
	}
	return vecdist.Open(cmd.Context(), store, name, t, opts...)
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the CPU and the selected kernel tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := simd.Probe()
			tier := distance.Default().Tier()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "tier:\t%s (%d-bit)\n", tier, tier.RegisterBits())
			fmt.Fprintf(w, "detected:\t%s\n", r.Tier)
			fmt.Fprintf(w, "overridden:\t%v\n", r.Overridden || tier != r.Tier)
			fmt.Fprintf(w, "cpu:\t%s\n", r.Brand)
			fmt.Fprintf(w, "vendor:\t%s\n", r.Vendor)
			fmt.Fprintf(w, "cores:\t%d physical, %d logical\n", r.PhysicalCores, r.LogicalCores)
			fmt.Fprintf(w, "cache line:\t%d\n", r.CacheLine)
			fmt.Fprintf(w, "features:\t%s\n", strings.Join(r.Features, " "))
			return w.Flush()
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List blobs in the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			names, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var sf setFlags
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Print the header of a vector set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd, args[0], sf)
			if err != nil {
				return err
			}
			defer c.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "name:\t%s\n", c.Name())
			fmt.Fprintf(w, "rows:\t%d\n", c.Rows())
			fmt.Fprintf(w, "cols:\t%d\n", c.Cols())
			fmt.Fprintf(w, "type:\t%s\n", c.ElementType())
			fmt.Fprintf(w, "compression:\t%s\n", c.Info().Compression)
			fmt.Fprintf(w, "data bytes:\t%d\n", c.Info().DataBytes)
			if pq := c.Set().Quantizer(); pq != nil {
				fmt.Fprintf(w, "subvectors:\t%d\n", pq.NumSubvectors())
				fmt.Fprintf(w, "centroids:\t%d\n", pq.KsPerSubvector())
				fmt.Fprintf(w, "subvector dim:\t%d\n", pq.DimPerSubvector())
				fmt.Fprintf(w, "dimension:\t%d\n", pq.Dimension())
				fmt.Fprintf(w, "compression ratio:\t%.1fx\n", pq.CompressionRatio())
			}
			return w.Flush()
		},
	}
	sf.register(cmd)
	return cmd
}

func newDistanceCmd(a *app) *cobra.Command {
	var sf setFlags
	cmd := &cobra.Command{
		Use:   "distance <name> <i> <j>",
		Short: "Print the distance between two rows",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("row i: %w", err)
			}
			j, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("row j: %w", err)
			}

			c, err := a.open(cmd, args[0], sf)
			if err != nil {
				return err
			}
			defer c.Close()

			d, err := c.Distance(i, j)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatFloat(d))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newPairwiseCmd(a *app) *cobra.Command {
	var (
		sf   setFlags
		rows string
	)
	cmd := &cobra.Command{
		Use:   "pairwise <name>",
		Short: "Print the distance matrix, one row per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel *roaring.Bitmap
			if rows != "" {
				var err error
				if sel, err = parseRows(rows); err != nil {
					return err
				}
			}

			c, err := a.open(cmd, args[0], sf)
			if err != nil {
				return err
			}
			defer c.Close()

			if sel == nil {
				m, err := c.Pairwise(cmd.Context())
				if err != nil {
					return err
				}
				return writeMatrix(cmd.OutOrStdout(), m, c.Rows())
			}

			m, ids, err := c.PairwiseRows(cmd.Context(), sel)
			if err != nil {
				return err
			}
			return writeMatrix(cmd.OutOrStdout(), m, len(ids))
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&rows, "rows", "", "restrict to rows, e.g. 0-9,42 (ranges are inclusive)")
	return cmd
}

// parseRows parses a comma separated list of row indices and inclusive
// lo-hi ranges.
func parseRows(s string) (*roaring.Bitmap, error) {
	bm := roaring.New()
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.ParseUint(lo, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("rows %q: %w", part, err)
		}
		if !isRange {
			bm.Add(uint32(first))
			continue
		}
		last, err := strconv.ParseUint(hi, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("rows %q: %w", part, err)
		}
		if last < first {
			return nil, fmt.Errorf("rows %q: empty range", part)
		}
		bm.AddRange(first, last+1)
	}
	if bm.IsEmpty() {
		return nil, fmt.Errorf("rows %q: no rows selected", s)
	}
	return bm, nil
}

func writeMatrix(w io.Writer, m []float32, n int) error {
	bw := bufio.NewWriter(w)
	for i := range n {
		for j, d := range m[i*n : (i+1)*n] {
			if j > 0 {
				_ = bw.WriteByte('\t')
			}
			_, _ = bw.WriteString(formatFloat(d))
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func newQuantizeCmd(a *app) *cobra.Command {
	var (
		subvectors  int
		centroids   int
		iterations  int
		seed        int64
		compression string
		level       int
	)

	cmd := &cobra.Command{
		Use:   "quantize <in> <out>",
		Short: "Train a product quantizer on a float32 set and store the codes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := vectorset.ParseCompression(compression)
			if err != nil {
				return err
			}

			opts, err := a.collectionOptions()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			c, err := vecdist.Open(cmd.Context(), store, args[0], distance.Float32, opts...)
			if err != nil {
				return err
			}
			defer c.Close()

			rows, err := vectorset.RowsOf[float32](c.Set())
			if err != nil {
				return err
			}

			trainOpts := []quantization.TrainOption{
				quantization.WithIterations(iterations),
				quantization.WithSeed(seed),
			}
			if a.cfg.Concurrency > 0 {
				trainOpts = append(trainOpts, quantization.WithConcurrency(a.cfg.Concurrency))
			}
			pq, err := quantization.Train(cmd.Context(), rows, subvectors, centroids, trainOpts...)
			if err != nil {
				return err
			}

			codes := make([][]byte, len(rows))
			for i, r := range rows {
				if codes[i], err = pq.Encode(r); err != nil {
					return err
				}
			}
			out, err := vectorset.FromCodes(pq, codes)
			if err != nil {
				return err
			}
			if err := vectorset.Save(cmd.Context(), store, args[1], out, vectorset.WriteOptions{Compression: comp, Level: level}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d rows, %dx%d codebook, %.1fx smaller\n",
				args[1], out.Rows(), pq.NumSubvectors(), pq.KsPerSubvector(), pq.CompressionRatio())
			return nil
		},
	}

	cmd.Flags().IntVarP(&subvectors, "subvectors", "m", 8, "number of subvectors (must divide the dimension)")
	cmd.Flags().IntVarP(&centroids, "centroids", "k", quantization.MaxCentroids, "centroids per subvector (at most 256)")
	cmd.Flags().IntVar(&iterations, "iterations", 20, "k-means iterations per subvector")
	cmd.Flags().Int64Var(&seed, "seed", 1, "training seed")
	cmd.Flags().StringVar(&compression, "compression", "none", "output framing: none, zstd, lz4")
	cmd.Flags().IntVar(&level, "level", 0, "compression level (0 = library default)")
	return cmd
}
