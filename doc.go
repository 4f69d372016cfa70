// Package kmersig discovers and searches k-mer signatures: short,
// fixed-length DNA subsequences that discriminate one labeled group of
// sequences from others.
//
// # Quick Start
//
//	groups := []sequence.Group{
//	    {Label: "firmicutes", Records: firmicutes},
//	    {Label: "actinobacteria", Records: actinobacteria},
//	}
//
//	db, _ := kmersig.BuildDatabase(ctx, 12, groups)
//	sig, _ := kmersig.DiffSignatures(db, "firmicutes")
//	reports := kmersig.Search(db, query)
//
// # Model
//
// Every k-mer is packed into a 2-bit-per-base integer code and collapsed
// onto its strand-canonical form (the smaller of the code and its reverse
// complement), so matching is strand-agnostic. Windows overlapping an
// ambiguous base never contribute k-mers. A group's signature set is the
// deduplicated collection of canonical codes extracted from its records;
// the discriminative signature of a group is its set minus the union of
// every other group's set.
//
// # Concurrency
//
// Builds are embarrassingly parallel: records within a group and groups
// within a database are extracted concurrently and merged by commutative
// set union. A built database is frozen; searches share it read-only with
// no locking. Construction always completes before the first search.
//
// # Persistence
//
// Databases serialize to a deterministic little-endian binary layout:
// identical inputs produce byte-identical files. K-mer lists are stored
// sorted ascending, so readers can binary-search the raw layout directly.
// Optional zstd or LZ4 envelopes wrap the identical payload and are
// detected on load.
package kmersig
