// Copyright 2025 The KeyServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command kwpack converts text catalogs into msgpack packs that keyserve loads
// without parsing lines.
//
//	kwpack -in catalog/products.txt -out catalog/products.bin
//	kwpack -in catalog/ -out store.bin -name store
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/keyserve/internal/logger"
	"github.com/bastiangx/keyserve/pkg/catalog"
	"github.com/charmbracelet/log"
)

func main() {
	in := flag.String("in", "", "Catalog file or directory to pack")
	out := flag.String("out", "", "Output pack file (default: input name with .bin)")
	name := flag.String("name", "", "Pack name (default: output file name)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	logger.Setup(*debugMode)

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = strings.TrimSuffix(filepath.Clean(*in), filepath.Ext(*in)) + ".bin"
	}
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(*out), filepath.Ext(*out))
	}
	if catalog.IsCatalogFile(*in) && filepath.Clean(*in) == filepath.Clean(*out) {
		log.Fatalf("Refusing to overwrite input %s", *in)
	}

	start := time.Now()
	loader := catalog.NewLoader(*in)
	keywords, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if err := catalog.WritePack(*out, *name, keywords); err != nil {
		log.Fatalf("Failed to write pack: %v", err)
	}

	stats := loader.Stats()
	info := logger.New("kwpack")
	info.SetLevel(log.InfoLevel)
	info.Info("Packed catalog", "files", stats.Files, "keywords", stats.Keywords, "out", *out, "took", time.Since(start))
}
