package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func printRecords(w io.Writer, recs []segment.Record) {
	out := tablewriter.NewWriter(w)
	out.SetHeader([]string{"Path", "From", "To", "Size", "Order"})
	out.SetAutoWrapText(false)

	for _, r := range recs {
		out.Append([]string{r.Path, u64(r.From), u64(r.To), u64(r.Size()), u64(r.Order)})
	}

	out.Render()
}

func printHoles(w io.Writer, holes []segment.Record) {
	out := tablewriter.NewWriter(w)
	out.SetHeader([]string{"From", "To", "Size", "Order"})

	var total uint64
	for _, h := range holes {
		out.Append([]string{u64(h.From), u64(h.To), u64(h.Size()), u64(h.Order)})
		total += h.Size()
	}

	out.SetFooter([]string{"", "Total", u64(total), ""})
	out.Render()
}

type metricsOutput struct {
	Writable         bool   `yaml:"writable"`
	ContainerSize    uint64 `yaml:"container_size"`
	FreeSegmentCount int    `yaml:"free_segment_count"`
	LiveSegmentCount int    `yaml:"live_segment_count"`
	FreeBytes        uint64 `yaml:"free_bytes"`
}

func printMetrics(w io.Writer, m segstore.Metrics) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(metricsOutput(m))
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	return enc.Close()
}

func printCompactRes(w io.Writer, res segstore.CompactRes) {
	fmt.Fprintf(w, "Moved objects: %d\n", res.Moved())
	fmt.Fprintf(w, "Reclaimed bytes: %d\n", res.Reclaimed())
}

func printCheckRes(w io.Writer, res segstore.CheckRes) {
	fmt.Fprintf(w, "Checked objects: %d\n", res.Checked())
	if len(res.Broken()) == 0 {
		return
	}

	fmt.Fprintf(w, "Broken objects: %d\n", len(res.Broken()))
	for _, p := range res.Broken() {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func collectRecords(st *segstore.Store) ([]segment.Record, error) {
	var recs []segment.Record
	err := st.Iterate(func(r segment.Record) error {
		recs = append(recs, r)
		return nil
	})
	return recs, err
}
