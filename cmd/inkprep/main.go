// Command inkprep binarizes a scanned or exported page the way the app does
// before recognition, and optionally runs recognition on it.
//
// Usage: inkprep [options] <image>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"ledger-ink/internal/app"
	"ledger-ink/internal/export"
	inkimage "ledger-ink/internal/image"
	"ledger-ink/internal/ocr"
	"ledger-ink/internal/preprocess"
)

var (
	flagOut     = flag.String("out", "", "Write the binarized page to this PNG")
	flagPDF     = flag.String("pdf", "", "Write the binarized page to this PDF")
	flagOCR     = flag.Bool("ocr", false, "Run recognition on the binarized page")
	flagEngine  = flag.String("engine", app.RecognizerTesseract, "Recognizer: demo or tesseract")
	flagLang    = flag.String("lang", "eng", "Tesseract language")
	flagTimeout = flag.Duration("timeout", 30*time.Second, "Recognition timeout")
	flagJSON    = flag.Bool("json", false, "Print the result as JSON")
)

// Result is what inkprep reports.
type Result struct {
	Input       string           `json:"input"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Text        string           `json:"text,omitempty"`
	Transaction *ocr.Transaction `json:"transaction,omitempty"`
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <image>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)
	if !inkimage.IsSupportedFormat(path) {
		fmt.Fprintf(os.Stderr, "Unsupported image format: %s (want one of %v)\n", path, inkimage.SupportedFormats())
		os.Exit(1)
	}

	src, err := inkimage.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}
	page, err := preprocess.ForRecognition(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error binarizing: %v\n", err)
		os.Exit(1)
	}

	res := Result{Input: path, Width: page.Bounds().Dx(), Height: page.Bounds().Dy()}

	if *flagOCR {
		if err := recognize(page, &res); err != nil {
			fmt.Fprintf(os.Stderr, "Error recognizing: %v\n", err)
			os.Exit(1)
		}
	}

	if *flagOut != "" {
		if err := export.SavePNG(*flagOut, page); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
			os.Exit(1)
		}
	}
	if *flagPDF != "" {
		opts := export.Options{Title: path}
		if res.Transaction != nil {
			opts.Caption = res.Transaction.String()
		}
		if err := export.SavePDF(*flagPDF, page, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PDF: %v\n", err)
			os.Exit(1)
		}
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("%s: %dx%d\n", res.Input, res.Width, res.Height)
	if *flagOCR {
		fmt.Printf("  text: %q\n", res.Text)
		if res.Transaction != nil {
			fmt.Printf("  entry: %s\n", res.Transaction)
		}
	}
}

func recognize(page image.Image, res *Result) error {
	var rec ocr.Recognizer
	switch *flagEngine {
	case app.RecognizerDemo:
		rec = ocr.NewDemoRecognizer()
	case app.RecognizerTesseract:
		engine, err := ocr.NewTesseractEngine(*flagLang)
		if err != nil {
			return err
		}
		defer engine.Close()
		rec = engine
	default:
		return fmt.Errorf("unknown engine %q", *flagEngine)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()
	text, err := rec.Recognize(ctx, page)
	if err != nil {
		return err
	}
	res.Text = text
	if tx, err := ocr.ParseTransaction(text); err == nil {
		res.Transaction = &tx
	}
	return nil
}
