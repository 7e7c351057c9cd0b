// Package scriptgen prepares script corpora for word-level text generation
// models and persists what training and generation need.
//
// # Quick Start
//
//	p := scriptgen.New(scriptgen.WithSeed(42))
//	b, err := p.PreprocessAndSaveData("data/simpsons/moes_tavern_lines.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(b.IDs), "ids,", b.Vocab.Len(), "words")
//
//	bundle, err := scriptgen.LoadPreprocess("preprocess.p")
//
// # Preprocessing
//
// Punctuation is replaced by placeholder words (see tokenizer.DefaultTokenLookup),
// text is lowercased and split on whitespace, a vocabulary is built and each
// stopword occurrence is kept with probability 0.5. Pass WithSeed for
// reproducible output.
//
// # Model Files
//
// SaveModel and LoadModel store trained models as "<name>.pt", where name is
// the base name of the given filename without its extension. Artifacts live in
// the working directory unless model.WithDir is given.
//
// # Generation
//
// Generator runs an ONNX export of a trained model over a bundle's vocabulary.
// It is safe for concurrent use and keeps a pool of sessions, configurable via
// WithPoolSize.
package scriptgen
