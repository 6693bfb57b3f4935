// Package hcl provides the HCL implementation of config.Loader. It is
// responsible for file discovery, parsing, HCL-to-model translation and
// cty-to-Go conversion of node properties.
//
// A scenery is written with these top level blocks:
//
//	node "beam_splitter" "bs" { ratio = 0.6 }
//	connect { from = "front.rear"  to = "bs.input1"  distance = 0.1 }
//	input "input_1" { node = "front"  port = "front" }
//	output "output_1" { node = "bs"  port = "out1_trans1_refl2" }
//	group "arm" { ... }
//	analysis { inverted = false  light "input_1" { energy = 1 } }
//
// Any number of files may contribute to the same scenery; their blocks are
// merged in file order.
package hcl
