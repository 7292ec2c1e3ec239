// Package model holds the views generated from model.yaml. It is compiled and tested with the
// rest of the module, and the schema tests check that the generator still produces model_gen.go.
package model

//go:generate go run github.com/ValentinKolb/inplace gen --schema-file model.yaml model model_gen.go
