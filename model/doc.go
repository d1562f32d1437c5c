// Package model implements WiSARD discriminators and classifiers.
//
// A Discriminator learns one class: it splits every sample into address
// chunks and records each chunk in its own filter. Its score for a sample is
// the number of filters that recognise their chunk. Wisard keeps one
// discriminator per label and predicts the label with the highest score.
// BinaryWisard is the classic configuration with single-bit tables and a
// seeded input permutation.
//
//	m, err := model.NewBinaryWithSeed(8, 2, []string{"cold", "hot"}, 42)
//	if err != nil {
//		return err
//	}
//	if err := m.FitAll(ctx, ds.All()); err != nil {
//		return err
//	}
//	label, err := m.Predict(s)
package model
