//go:build js && wasm

package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"syscall/js"
	"time"

	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/lucasjlepore/fit-tracker/fitimport"
	"github.com/lucasjlepore/fit-tracker/pipeline"
)

func main() {
	js.Global().Set("showTrainingInfo", js.FuncOf(showTrainingInfo))
	js.Global().Set("computeBatch", js.FuncOf(computeBatch))
	select {}
}

// showTrainingInfo(code string, values number[]) -> {ok, message} | {ok, error}
func showTrainingInfo(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return failure("expected arguments: code(string), values(number[])")
	}
	msg, err := ftracker.ShowTrainingInfo(args[0].String(), floats(args[1]))
	if err != nil {
		return failure(err.Error())
	}
	return map[string]any{
		"ok":      true,
		"message": msg,
	}
}

// computeBatch(packages {type, data}[] | fitBytes Uint8Array, options object) -> {ok, zip, files, failed}
func computeBatch(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return failure("expected arguments: packages(array) or fitBytes(Uint8Array), options(object)")
	}
	input, optsArg := args[0], args[1]

	var pkgs []ftracker.Package
	var warnings []string
	if input.InstanceOf(js.Global().Get("Uint8Array")) {
		fileBytes := make([]byte, input.Get("length").Int())
		if n := js.CopyBytesToGo(fileBytes, input); n == 0 {
			return failure("failed to read FIT bytes from JS input")
		}
		imported, err := fitimport.ReadBytes(fileBytes, fitimport.Athlete{
			WeightKG: getFloat(optsArg, "weight_kg"),
			Height:   getFloat(optsArg, "height"),
		})
		if err != nil {
			return failure(err.Error())
		}
		pkgs = imported.Packages()
		warnings = imported.Warnings
	} else {
		for i := 0; i < input.Length(); i++ {
			p := input.Index(i)
			pkgs = append(pkgs, ftracker.Package{Type: p.Get("type").String(), Data: floats(p.Get("data"))})
		}
	}

	result, err := pipeline.RunPackages(pipeline.BytesOptions{
		SourceName: getString(optsArg, "source_name", "browser"),
		Packages:   pkgs,
		Format:     getString(optsArg, "format", pipeline.FormatJSONL),
	})
	if err != nil {
		return failure(err.Error())
	}

	zipBytes, err := zipArtifacts(result.Files)
	if err != nil {
		return failure(fmt.Sprintf("create zip: %v", err))
	}
	payload := js.Global().Get("Uint8Array").New(len(zipBytes))
	js.CopyBytesToJS(payload, zipBytes)

	fileNames := make([]string, 0, len(result.Files))
	for name := range result.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	failed := 0
	for _, e := range result.Entries {
		if e.Failed() {
			failed++
		}
	}
	return map[string]any{
		"ok":       true,
		"zip":      payload,
		"files":    stringsToAny(fileNames),
		"failed":   failed,
		"warnings": stringsToAny(warnings),
	}
}

func failure(msg string) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}

func zipArtifacts(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fixedTime := time.Unix(0, 0).UTC()

	for _, name := range names {
		h := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		h.SetModTime(fixedTime)
		w, err := zw.CreateHeader(h)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floats(v js.Value) []float64 {
	if v.IsUndefined() || v.IsNull() {
		return nil
	}
	out := make([]float64, 0, v.Length())
	for i := 0; i < v.Length(); i++ {
		out = append(out, v.Index(i).Float())
	}
	return out
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return fallback
	}
	s := out.String()
	if s == "" || s == "undefined" || s == "null" {
		return fallback
	}
	return s
}

func getFloat(v js.Value, key string) float64 {
	if v.IsUndefined() || v.IsNull() {
		return 0
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() || out.Type() != js.TypeNumber {
		return 0
	}
	return out.Float()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
