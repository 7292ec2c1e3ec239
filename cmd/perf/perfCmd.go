package perf

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/inplace/cmd/util"
	"github.com/ValentinKolb/inplace/wire/common"
	"github.com/ValentinKolb/inplace/wire/serializer"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// PerfCmd benchmarks the serializers against each other
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the serializers",
		Long:    "Benchmarks serialization, deserialization and zero-copy access of sample messages for every serializer.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfSerializers   = common.Serializers
	perfPayloadSizeKB = 16
	perfNumThreads    = 1
	perfSkip          = make([]string, 0)
	conf              *common.Config
)

func init() {
	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. serialize,open)"))
	key = "serializers"
	PerfCmd.Flags().String(key, strings.Join(common.Serializers, ","), util.WrapString("Serializers to compare (comma separated)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 1, util.WrapString("Number of goroutines per CPU to use for the benchmark"))
	key = "payload-size"
	PerfCmd.Flags().Int(key, 16, util.WrapString("How large the payload of the large message should be (in KB)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "prometheus"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save the collected metrics in Prometheus text format (- for stdout)"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if conf, err = util.Setup(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfPayloadSizeKB = viper.GetInt("payload-size")
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfSerializers = strings.Split(viper.GetString("serializers"), ",")
	for _, name := range perfSerializers {
		if !slices.Contains(common.Serializers, name) {
			return fmt.Errorf("invalid serializer %s", name)
		}
	}
	return nil
}

// result is one benchmark run
type result struct {
	serializer string
	op         string
	message    string
	size       int
	bench      testing.BenchmarkResult
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for the serializers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	set := metrics.NewSet()
	var results []result
	messages := sampleMessages()

	for _, name := range perfSerializers {
		s, err := util.GetSerializer(name)
		if err != nil {
			return err
		}
		for _, msgName := range sortedNames(messages) {
			msg := messages[msgName]
			data, err := s.Serialize(msg)
			if err != nil {
				return fmt.Errorf("%s: failed to serialize %s: %w", name, msgName, err)
			}
			set.GetOrCreateCounter(fmt.Sprintf(`inplace_perf_encoded_bytes{serializer=%q,message=%q}`, name, msgName)).Add(len(data))

			for _, op := range operations(name) {
				if shouldSkip(op.name) {
					continue
				}
				bench := testing.Benchmark(op.bench(s, msg, data))
				r := result{serializer: name, op: op.name, message: msgName, size: len(data), bench: bench}
				results = append(results, r)
				record(set, r)
				printResult(r)
			}
		}
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	// Write metrics if specified
	if path := viper.GetString("prometheus"); path != "" {
		if err := writeMetrics(path, set); err != nil {
			return fmt.Errorf("failed to export metrics: %w", err)
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

type operation struct {
	name  string
	bench func(s serializer.IRPCSerializer, msg common.Message, data []byte) func(b *testing.B)
}

// operations returns the benchmarks that apply to a serializer. The binary format additionally
// supports zero-copy access.
func operations(name string) []operation {
	ops := []operation{
		{name: "serialize", bench: benchSerialize},
		{name: "deserialize", bench: benchDeserialize},
	}
	if name == "binary" {
		ops = append(ops,
			operation{name: "open", bench: benchOpen},
			operation{name: "update", bench: benchUpdate},
		)
	}
	return ops
}

func benchSerialize(s serializer.IRPCSerializer, msg common.Message, _ []byte) func(b *testing.B) {
	return func(b *testing.B) {
		b.ReportAllocs()
		b.SetParallelism(perfNumThreads)
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := s.Serialize(msg); err != nil {
					util.Log.Errorf("(serialize) - %v", err)
				}
			}
		})
	}
}

func benchDeserialize(s serializer.IRPCSerializer, _ common.Message, data []byte) func(b *testing.B) {
	return func(b *testing.B) {
		b.ReportAllocs()
		b.SetParallelism(perfNumThreads)
		b.RunParallel(func(pb *testing.PB) {
			var msg common.Message
			for pb.Next() {
				if err := s.Deserialize(data, &msg); err != nil {
					util.Log.Errorf("(deserialize) - %v", err)
				}
			}
		})
	}
}

func benchOpen(_ serializer.IRPCSerializer, _ common.Message, data []byte) func(b *testing.B) {
	return func(b *testing.B) {
		b.ReportAllocs()
		b.SetParallelism(perfNumThreads)
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := serializer.OpenMessage(data); err != nil {
					util.Log.Errorf("(open) - %v", err)
				}
			}
		})
	}
}

// benchUpdate increments the sequence number in place. Every goroutine works on its own copy.
func benchUpdate(_ serializer.IRPCSerializer, _ common.Message, data []byte) func(b *testing.B) {
	return func(b *testing.B) {
		b.ReportAllocs()
		b.SetParallelism(perfNumThreads)
		b.RunParallel(func(pb *testing.PB) {
			own := slices.Clone(data)
			view, err := serializer.OpenMessage(own)
			if err != nil {
				util.Log.Errorf("(update) - %v", err)
				return
			}
			for pb.Next() {
				view.Seq.Write(view.Seq.Read() + 1)
			}
		})
	}
}

// sampleMessages returns the messages every serializer is benchmarked with
func sampleMessages() map[string]common.Message {
	return map[string]common.Message{
		"empty": {Kind: common.MsgKSuccess},
		"small": *common.NewPutRequest("key", []byte("value")),
		"large": *common.NewPutRequest("key", make([]byte, perfPayloadSizeKB*1024)),
		"tags":  *common.NewPutRequest("key", nil, "alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"),
		"complete": {
			Kind:     common.MsgKWatch,
			Key:      "complete-test-key",
			Seq:      10000,
			Deadline: time.Now().UnixMilli(),
			Payload:  []byte("test-payload-data"),
			Ok:       true,
			Err:      "This is a test error message",
			Tags:     []string{"perf"},
			Meta:     []byte("test-meta-data-for-benchmarking"),
		},
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

func sortedNames(m map[string]common.Message) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// record adds a result to the metrics set
func record(set *metrics.Set, r result) {
	labels := fmt.Sprintf(`serializer=%q,op=%q`, r.serializer, r.op)
	set.GetOrCreateHistogram("inplace_perf_ns_per_op{" + labels + "}").Update(float64(r.bench.NsPerOp()))
	set.GetOrCreateCounter("inplace_perf_ops_total{" + labels + "}").Add(r.bench.N)
	set.GetOrCreateCounter("inplace_perf_allocs_total{" + labels + "}").Add(int(r.bench.MemAllocs))
}

// writeMetrics writes the metrics set in Prometheus text format
func writeMetrics(path string, set *metrics.Set) error {
	if path == "-" {
		set.WritePrometheus(os.Stdout)
		return nil
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	set.WritePrometheus(file)
	return nil
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(r result) {
	test := r.serializer + "/" + r.op + "/" + r.message
	if r.bench.N == 0 {
		fmt.Printf("%-36sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-36s%.0fns/op (%s/op)\t%.0f ops/sec\t%d allocs/op\t%d bytes\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, r.bench.AllocsPerOp(), r.size)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Serializer", "Op", "Message", "EncodedBytes",
		"NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp", "BytesPerOp",
		"Threads", "PayloadSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1)
		row := []string{
			r.serializer,
			r.op,
			r.message,
			strconv.Itoa(r.size),
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", 1.0/(nsPerOp/1e9)),
			strconv.FormatInt(r.bench.AllocsPerOp(), 10),
			strconv.FormatInt(r.bench.AllocedBytesPerOp(), 10),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfPayloadSizeKB),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s/%s/%s: %w", r.serializer, r.op, r.message, err)
		}
	}

	return nil
}
