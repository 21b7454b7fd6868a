// Package loader reads model files written in HCL.
//
// A model file contains at most one `model` block carrying the model name,
// meta data, the explicit state order and output name reservations, followed
// by any number of `component` blocks. Components hold `alias` blocks and
// (possibly nested) `variable` blocks:
//
//	component "membrane" {
//	  variable "V" {
//	    state = -84
//	    rhs   = -i_ion / C
//	  }
//	}
//
// The `rhs` of a state is its derivative. Files in a directory are merged into
// a single model, and because every variable is created before any equation
// is resolved, equations may refer to variables declared later or in another
// file. The format is the one produced by model.Model.Code.
package loader
