package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/khmer-segmenter/pkg/khmer"
	"github.com/khmer-segmenter/pkg/khmer/rules"
)

// Pre-allocated string builder pool for JSON output.
var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

// buildJSON writes {"id":N,"input":"...","segments":["...","..."]} without
// going through encoding/json's reflection path.
func buildJSON(sb *strings.Builder, id int, input string, segments []string) {
	sb.Reset()
	sb.Grow(len(input)*2 + len(segments)*10 + 50)

	sb.WriteString(`{"id":`)
	writeInt(sb, id)
	sb.WriteString(`,"input":"`)
	writeEscapedJSON(sb, input)
	sb.WriteString(`","segments":[`)

	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		writeEscapedJSON(sb, seg)
		sb.WriteByte('"')
	}
	sb.WriteString(`]}`)
}

func writeInt(sb *strings.Builder, n int) {
	if n == 0 {
		sb.WriteByte('0')
		return
	}
	if n < 0 {
		sb.WriteByte('-')
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	sb.Write(buf[pos:])
}

func writeEscapedJSON(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte("0123456789abcdef"[c>>4])
				sb.WriteByte("0123456789abcdef"[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}
}

func main() {
	dictPath := flag.String("dict", "data/khmer_dictionary_words.txt", "Path to dictionary file")
	freqPath := flag.String("freq", "data/khmer_word_frequencies.json", "Path to frequency file")
	rulesPath := flag.String("rules", "data/khmer_rules.yaml", "Path to rules file")
	inputPath := flag.String("input", "", "Input text file (required)")
	outputPath := flag.String("output", "", "Output JSON file (optional, skip to benchmark only)")
	limit := flag.Int("limit", 0, "Limit number of lines (0 = unlimited)")
	threads := flag.Int("threads", 0, "Number of worker goroutines (0 = use all CPUs)")

	flag.StringVar(dictPath, "d", *dictPath, "Path to dictionary file (short)")
	flag.StringVar(freqPath, "f", *freqPath, "Path to frequency file (short)")
	flag.StringVar(rulesPath, "r", *rulesPath, "Path to rules file (short)")
	flag.StringVar(inputPath, "i", "", "Input text file (short)")
	flag.StringVar(outputPath, "o", "", "Output JSON file (short)")
	flag.IntVar(limit, "l", 0, "Limit number of lines (short)")
	flag.IntVar(threads, "t", 0, "Number of worker goroutines (short)")

	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: khmer --input <file> [--output <file>] [options]")
		fmt.Fprintln(os.Stderr, "Options:")
		fmt.Fprintln(os.Stderr, "  --dict, -d <path>   Path to dictionary file")
		fmt.Fprintln(os.Stderr, "  --freq, -f <path>   Path to frequency file")
		fmt.Fprintln(os.Stderr, "  --rules, -r <path>  Path to rules file")
		fmt.Fprintln(os.Stderr, "  --output, -o <path> Output file (optional, skip to benchmark only)")
		fmt.Fprintln(os.Stderr, "  --limit, -l <n>     Limit number of lines")
		fmt.Fprintln(os.Stderr, "  --threads, -t <n>   Number of worker goroutines")
		os.Exit(1)
	}

	if err := run(*dictPath, *freqPath, *rulesPath, *inputPath, *outputPath, *limit, *threads); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dictPath, freqPath, rulesPath, inputPath, outputPath string, limit, threads int) error {
	fmt.Println("Initializing Go Segmenter...")
	fmt.Printf("Dictionary: %s\n", dictPath)
	fmt.Printf("Frequencies: %s\n", freqPath)
	fmt.Printf("Rules: %s\n", rulesPath)

	startLoad := time.Now()

	dictText, err := readFileOrEmpty(dictPath)
	if err != nil {
		return fmt.Errorf("dictionary not found at %s: %w", dictPath, err)
	}

	freq, err := loadFrequencyFile(freqPath)
	if err != nil {
		return err
	}

	ruleSpecs, err := loadRuleFile(rulesPath)
	if err != nil {
		return err
	}

	segmenter, err := khmer.NewSegmenter(dictText, freq, ruleSpecs)
	if err != nil {
		return err
	}

	fmt.Printf("Model loaded in %.2fs\n", time.Since(startLoad).Seconds())
	fmt.Printf("Reading source: %s\n", inputPath)

	lines, err := readLines(inputPath, limit)
	if err != nil {
		return err
	}

	numLines := len(lines)
	fmt.Printf("Processing %d lines...\n", numLines)

	numWorkers := threads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	fmt.Printf("Using %d worker goroutines\n", numWorkers)

	startProcess := time.Now()
	results := make([]string, numLines)

	var wg sync.WaitGroup
	jobs := make(chan int, numLines)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each goroutine owns its own clone: shared dictionary and
			// rule engine, private DP buffers.
			worker := segmenter.Clone()
			sb := builderPool.Get().(*strings.Builder)
			defer builderPool.Put(sb)

			for i := range jobs {
				line := lines[i]
				segments := worker.Segment(line)
				buildJSON(sb, i, line, segments)
				results[i] = sb.String()
			}
		}()
	}

	for i := 0; i < numLines; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if outputPath != "" {
		if err := writeResults(outputPath, results); err != nil {
			return err
		}
	}

	duration := time.Since(startProcess).Seconds()
	if outputPath != "" {
		fmt.Printf("Done. Saved to %s\n", outputPath)
	}
	fmt.Printf("Time taken: %.2fs\n", duration)
	fmt.Printf("Speed: %.2f lines/sec\n", float64(numLines)/duration)

	return nil
}

func readFileOrEmpty(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadFrequencyFile mirrors the teacher's loadFrequencies distinction: a
// missing file is acceptable and yields default costs, but a present,
// unparseable file is a hard error.
func loadFrequencyFile(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Frequency file not found at %s. Using default costs.\n", path)
		return nil, nil
	}
	var freq map[string]int
	if err := json.Unmarshal(data, &freq); err != nil {
		return nil, fmt.Errorf("parsing frequency file %s: %w", path, err)
	}
	return freq, nil
}

// loadRuleFile mirrors the same missing-file-is-fine, malformed-file-is-an-
// error distinction for the rules YAML.
func loadRuleFile(path string) ([]rules.RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Rules file not found at %s. Running with no rules.\n", path)
		return nil, nil
	}
	specs, err := rules.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return specs, nil
}

func readLines(inputPath string, limit int) ([]string, error) {
	inputFile, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("input file not found: %w", err)
	}
	defer inputFile.Close()

	var lines []string
	scanner := bufio.NewScanner(inputFile)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
		if limit > 0 && len(lines) >= limit {
			break
		}
	}
	return lines, scanner.Err()
}

func writeResults(outputPath string, results []string) error {
	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer outputFile.Close()

	writer := bufio.NewWriterSize(outputFile, 256*1024)
	for _, jsonStr := range results {
		writer.WriteString(jsonStr)
		writer.WriteByte('\n')
	}
	return writer.Flush()
}
