// gtest runs gc0 over a directory of C0 programs and compares the token
// stream and evaluated value of each against a golden .json file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/driver"
	"github.com/xplshn/gc0/pkg/util"
)

type FileTestResult struct {
	File    string `json:"file"`
	Status  string `json:"status"` // PASS, FAIL, SKIP, ERROR
	Message string `json:"message,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

var (
	generateGolden = flag.String("generate-golden", "", "Generate a golden .json file for a given source file.")
	testFiles      = flag.String("test-files", "testdata/*.c", "Glob pattern(s) for files to test (space-separated).")
	skipFiles      = flag.String("skip-files", "", "Files to skip (space-separated).")
	outputJSON     = flag.String("output", ".test_results.json", "Output file for the JSON test report.")
	jsonDir        = flag.String("dir", "", "Directory to store/read golden JSON files (defaults to source file dir).")
	std            = flag.String("std", "C0", "Language standard to test under (C0, C89).")
	jobs           = flag.Int("j", 4, "Number of parallel test jobs.")
	verbose        = flag.Bool("v", false, "Enable verbose logging.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	util.Stderr = io.Discard

	cfg := config.NewConfig()
	if err := cfg.ApplyStd(*std); err != nil {
		log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
	}

	if *generateGolden != "" {
		handleGenerateGolden(*generateGolden, cfg)
		return
	}
	if !handleRunTestSuite(cfg) {
		os.Exit(1)
	}
}

func getJSONPath(sourceFile string) string {
	jsonFileName := "." + filepath.Base(sourceFile) + ".json"
	if *jsonDir != "" {
		return filepath.Join(*jsonDir, jsonFileName)
	}
	return filepath.Join(filepath.Dir(sourceFile), jsonFileName)
}

// hashFile computes the xxhash of a file's content
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum64()), nil
}

func handleGenerateGolden(sourceFile string, cfg *config.Config) {
	log.Printf("Generating golden file for %s...\n", sourceFile)
	src, err := driver.ReadSource(sourceFile)
	if err != nil {
		log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
	}

	jsonData, err := json.MarshalIndent(driver.Record(src, cfg), "", "  ")
	if err != nil {
		log.Fatalf("%s[ERROR]%s Failed to marshal golden data to JSON: %v\n", cRed, cNone, err)
	}

	goldenFileName := getJSONPath(sourceFile)
	if *jsonDir != "" {
		if err := os.MkdirAll(*jsonDir, 0o755); err != nil {
			log.Fatalf("%s[ERROR]%s Failed to create directory %s: %v\n", cRed, cNone, *jsonDir, err)
		}
	}
	if err := os.WriteFile(goldenFileName, append(jsonData, '\n'), 0o644); err != nil {
		log.Fatalf("%s[ERROR]%s Failed to write golden file %s: %v\n", cRed, cNone, goldenFileName, err)
	}
	log.Printf("%s[SUCCESS]%s Golden file created at %s\n", cGreen, cNone, goldenFileName)
}

func handleRunTestSuite(cfg *config.Config) bool {
	var files []string
	for _, pattern := range strings.Fields(*testFiles) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			log.Fatalf("%s[ERROR]%s Invalid glob pattern %q: %v\n", cRed, cNone, pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return true
	}

	skipList := make(map[string]bool)
	for _, f := range strings.Fields(*skipFiles) {
		skipList[f] = true
	}

	tasks := make(chan string, len(files))
	resultsChan := make(chan *FileTestResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < max(*jobs, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				resultsChan <- testFile(file, cfg)
			}
		}()
	}

	// Feed the tasks channel, skipping files with identical content
	seenHashes := make(map[string]string)
	for _, file := range files {
		if skipList[file] {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: "Explicitly skipped"}
			continue
		}
		fileHash, err := hashFile(file)
		if err != nil {
			resultsChan <- &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to read file for hashing: %v", err)}
			continue
		}
		if originalFile, seen := seenHashes[fileHash]; seen {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: fmt.Sprintf("Content is identical to %s", originalFile)}
			continue
		}
		seenHashes[fileHash] = file
		tasks <- file
	}
	close(tasks)

	wg.Wait()
	close(resultsChan)

	var allResults []*FileTestResult
	for result := range resultsChan {
		allResults = append(allResults, result)
	}
	sort.Slice(allResults, func(i, j int) bool { return allResults[i].File < allResults[j].File })

	passed := printSummary(allResults)
	writeJSONReport(allResults)
	return passed
}

func testFile(file string, cfg *config.Config) *FileTestResult {
	goldenFile := getJSONPath(file)
	goldenData, err := os.ReadFile(goldenFile)
	if err != nil {
		return &FileTestResult{File: file, Status: "SKIP", Message: "Cannot test without a corresponding .json golden file"}
	}
	var want driver.Outcome
	if err := json.Unmarshal(goldenData, &want); err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not parse golden file %s: %v", goldenFile, err)}
	}

	src, err := driver.ReadSource(file)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: err.Error()}
	}
	got := driver.Record(src, cfg)
	if *verbose {
		log.Printf("[%s] %d token(s), value %d", file, len(got.Tokens), got.Value)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return &FileTestResult{File: file, Status: "FAIL", Message: "Output does not match golden file", Diff: diff}
	}
	return &FileTestResult{File: file, Status: "PASS"}
}

func printSummary(results []*FileTestResult) bool {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case "PASS":
			if *verbose {
				log.Printf("%s[PASS]%s %s\n", cGreen, cNone, r.File)
			}
		case "SKIP":
			log.Printf("%s[SKIP]%s %s: %s\n", cYellow, cNone, r.File, r.Message)
		default:
			log.Printf("%s[%s]%s %s: %s\n%s", cRed, r.Status, cNone, r.File, r.Message, r.Diff)
		}
	}
	log.Printf("\n%d passed, %d failed, %d errors, %d skipped\n", counts["PASS"], counts["FAIL"], counts["ERROR"], counts["SKIP"])
	return counts["FAIL"] == 0 && counts["ERROR"] == 0
}

func writeJSONReport(results []*FileTestResult) {
	report := make(map[string]*FileTestResult, len(results))
	for _, r := range results {
		report[r.File] = r
	}
	outputFile := *outputJSON
	if *jsonDir != "" {
		outputFile = filepath.Join(*jsonDir, *outputJSON)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("%s[WARN]%s Failed to marshal report: %v\n", cYellow, cNone, err)
		return
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		log.Printf("%s[WARN]%s Failed to write report %s: %v\n", cYellow, cNone, outputFile, err)
	}
}
