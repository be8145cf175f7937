// Package io provides JSON import and export for placement plans.
//
// # Overview
//
// This package serializes the output of the placement engine to a
// simple JSON format. The format is designed for:
//
//   - Inspecting placements without opening the generated PDF
//   - Driving external RIP or trimming tooling from the same plan
//   - Round-trip preservation: export, inspect, and re-import identically
//
// # JSON Format
//
// The format has a "job" object and a "placements" array:
//
//	{
//	  "job": {
//	    "tile_count": 4,
//	    "sheet": {"width": 841.89, "height": 595.28},
//	    "grid": {"columns": 2, "rows": 2},
//	    "mode": "grid"
//	  },
//	  "placements": [
//	    {"tile": 0, "sheet": 0, "col": 0, "row": 0,
//	     "x": 14.17, "y": 306.14, "width": 398.6, "height": 274.9}
//	  ]
//	}
//
// All geometry is in PDF points with a bottom-left origin, matching
// the placement engine.
package io
