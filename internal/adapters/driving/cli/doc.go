// Package cli provides the ragindex command tree built on cobra.
//
// The root command indexes one document:
//
//	ragindex --txt book.txt --db rag_vectors.db --chunk-size 800
//
// Subcommands report on a store (stats), manage the settings file (config)
// and print the build version (version). Adapters are injected from main
// with SetDependencies.
package cli
