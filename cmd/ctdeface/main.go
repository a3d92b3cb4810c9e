package main

import (
	"flag"
	"fmt"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mrsinham/ctdeface/internal/deface"
	"github.com/mrsinham/ctdeface/internal/dicomio"
	"github.com/mrsinham/ctdeface/internal/preview"
	"github.com/mrsinham/ctdeface/internal/report"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	input := flag.String("input", "", "Directory containing the input DICOM slices (required)")
	output := flag.String("output", "", "Output directory (default: <input>_d)")
	replacer := flag.String("replacer", "face", "Replacement policy: face, air, or an integer HU value")
	airThreshold := flag.Int("air-threshold", -800, "HU value at or below which a voxel counts as air")
	kernelSize := flag.Int("kernel-size", 35, "Diameter in pixels of the circular dilation kernel")
	faceMin := flag.Int("face-min", -125, "Exclusive lower HU bound for tissue-sampled values")
	faceMax := flag.Int("face-max", 50, "Exclusive upper HU bound for tissue-sampled values")
	volumetric := flag.Bool("volumetric", false, "Select the largest 26-connected component across the whole volume instead of per slice")
	workers := flag.Int("workers", 0, fmt.Sprintf("Number of parallel workers for per-slice stages (default: %d = CPU cores)", runtime.NumCPU()))
	seed := flag.Int64("seed", 0, "Seed for reproducible substitution (0 = random)")
	withPreview := flag.Bool("preview", false, "Write before/after PNG renderings of the middle slice into the output directory")
	configFile := flag.String("config", "", "Load configuration from YAML file (flags override file values)")
	saveConfig := flag.String("save-config", "", "Save the effective configuration to YAML file")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	showVersion := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help message")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ctdeface %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n")
		printUsage()
		os.Exit(1)
	}

	// Resolve configuration: defaults, then file, then explicit flags.
	cfg := deface.DefaultConfig()
	if *configFile != "" {
		loaded, err := deface.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "replacer":
			cfg.Replacer = *replacer
		case "air-threshold":
			cfg.AirThreshold = *airThreshold
		case "kernel-size":
			cfg.KernelDiameter = *kernelSize
		case "face-min":
			cfg.FaceMinHU = *faceMin
		case "face-max":
			cfg.FaceMaxHU = *faceMax
		case "volumetric":
			cfg.Volumetric = *volumetric
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	destDir := *output
	if destDir == "" {
		destDir = filepath.Clean(*input) + dicomio.DefaultOutputSuffix
	}

	var rng *randv2.Rand
	if *seed != 0 {
		rng = randv2.New(randv2.NewPCG(uint64(*seed), uint64(*seed)))
	}

	start := time.Now()
	done := 0
	progress := func(stage deface.Stage) {
		done++
		if !*quiet {
			fmt.Printf("  [%d/%d] %s\n", done, deface.NumStages, stage)
		}
	}
	warn := func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}

	if !*quiet {
		fmt.Println("ctdeface")
		fmt.Println("========")
		fmt.Printf("Input:  %s\n", *input)
		fmt.Printf("Output: %s\n", destDir)
		if *seed != 0 {
			fmt.Printf("Using seed: %d\n", *seed)
		}
		fmt.Println()
	}

	scan, err := dicomio.LoadScan(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scan: %v\n", err)
		os.Exit(1)
	}
	progress(deface.StageLoad)

	res, err := deface.Run(scan.DefaceSlices(), deface.Options{
		Config:   cfg,
		Rand:     rng,
		Workers:  *workers,
		Progress: progress,
		Warn:     warn,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := scan.Write(res.Output, destDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing scan: %v\n", err)
		os.Exit(1)
	}
	progress(deface.StageWrite)

	if *withPreview {
		mid := res.Output.Slices / 2
		if err := preview.WritePNG(res.Input, mid, filepath.Join(destDir, "preview_before.png")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write preview: %v\n", err)
		}
		if err := preview.WritePNG(res.Output, mid, filepath.Join(destDir, "preview_after.png")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write preview: %v\n", err)
		}
	}

	if *saveConfig != "" {
		if err := deface.SaveConfig(cfg, *saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		} else if !*quiet {
			fmt.Printf("Configuration saved to %s\n", *saveConfig)
		}
	}

	if !*quiet {
		fmt.Println()
		report.Summarize(res).Fprint(os.Stdout)
		fmt.Printf("\n✓ De-identified %d slices in %s\n", res.Output.Slices, time.Since(start).Round(time.Millisecond))
		fmt.Printf("  Output directory: %s\n", destDir)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  ctdeface --input <DIR> [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("ctdeface")
	fmt.Println("========")
	fmt.Println()
	fmt.Println("Overwrite the facial surface tissue of a CT scan with plausible substitute")
	fmt.Println("intensities, leaving internal anatomy untouched.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ctdeface --input <DIR> [options]")
	fmt.Println()
	fmt.Println("Required arguments:")
	fmt.Println("  --input <DIR>         Directory containing the input DICOM slices")
	fmt.Println()
	fmt.Println("Optional arguments:")
	fmt.Println("  --output <DIR>        Output directory (default: <input>_d)")
	fmt.Println("  --replacer <POLICY>   face (sample skin/fat values, default), air (0 HU),")
	fmt.Println("                        or an integer HU value")
	fmt.Println("  --air-threshold <HU>  Air threshold (default: -800)")
	fmt.Println("  --kernel-size <PX>    Dilation kernel diameter (default: 35)")
	fmt.Println("  --face-min <HU>       Lower bound for sampled values, exclusive (default: -125)")
	fmt.Println("  --face-max <HU>       Upper bound for sampled values, exclusive (default: 50)")
	fmt.Println("  --volumetric          Use whole-volume 26-connected component selection")
	fmt.Println("  --seed <N>            Seed for reproducible substitution (default: random)")
	fmt.Printf("  --workers <N>         Parallel workers for per-slice stages (default: %d)\n", runtime.NumCPU())
	fmt.Println("  --preview             Write before/after PNGs of the middle slice")
	fmt.Println("  --config <FILE>       Load configuration from YAML (flags override)")
	fmt.Println("  --save-config <FILE>  Save the effective configuration to YAML")
	fmt.Println("  --quiet               Suppress progress output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # De-identify a scan into <dir>_d with the default tissue palette")
	fmt.Println("  ctdeface --input /data/ct_head")
	fmt.Println()
	fmt.Println("  # Replace the exterior with air instead of sampled tissue")
	fmt.Println("  ctdeface --input /data/ct_head --replacer air")
	fmt.Println()
	fmt.Println("  # Reproducible run with previews")
	fmt.Println("  ctdeface --input /data/ct_head --seed 42 --preview")
}
