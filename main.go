// =============================================================================
// Sales Aggregation - Main Entry Point
// =============================================================================
//
// USAGE:
//   salesagg <directory>              - Aggregate branch totals
//   salesagg --commodity <directory>  - Aggregate branch and commodity totals
//   salesagg version                  - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra) and the run pipeline
//   - internal/      : master loading, record selection, validation,
//                      aggregation, reports, config, logging, errors
//   - pkg/utils      : file system primitives
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-aggregation/cmd"
)

func main() {
	cmd.Execute()
}
