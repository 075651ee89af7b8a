package core_test

import (
	"fmt"
	"os"

	"github.com/redactyl/ddscan/pkg/core"
)

// ExampleScan demonstrates how to scan a directory of projects.
func ExampleScan() {
	// 1. Configure the scan
	// Each child of ./apps with a package.json or a Unity layout is a project.
	cfg := core.DefaultConfig("./apps")
	cfg.Threads = 4
	cfg.Extensions = []string{".ts", ".tsx"}

	// 2. Run the scan
	res, err := core.Scan(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		return
	}

	// 3. Process findings
	for _, p := range res.Projects {
		fmt.Printf("%s: %d call sites\n", p.Name, p.FindingsCount)
	}
	_ = core.MarshalFindings(os.Stdout, res.ByCategory("user_data"))
}

// ExampleSupportedExtensions lists the file types ddscan reads.
func ExampleSupportedExtensions() {
	fmt.Println(core.SupportedExtensions())
	// Output: [.cjs .cs .js .jsx .mjs .ts .tsx]
}
