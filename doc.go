// Package sparsebayes implements sparse Bayesian linear regression
// (a relevance vector machine restricted to regression).
//
// The caller supplies an already-evaluated design matrix: each column
// is one basis function evaluated at every sample. The model assigns
// an individual precision hyperparameter to each basis function and
// re-estimates it by type-II maximum likelihood (the evidence
// approximation). Basis functions whose precision diverges are pruned,
// leaving a small set of relevance vectors that explains the data.
//
// # Quick start
//
//	model := sparsebayes.New(
//	    sparsebayes.WithTolerance(1e-3),
//	    sparsebayes.WithBias(true),
//	)
//	if err := model.Fit(ctx, phi, y, labels); err != nil {
//	    log.Fatal(err)
//	}
//
//	pred, err := model.Predict(phiNew)
//
// With predictive variance:
//
//	mean, variance, err := model.PredictWithVariance(phiNew)
//
// The fitted sparse model can be inspected:
//
//	report, _ := model.Report()
//	fmt.Println(report)
//
// # Persistence
//
// Fitted models serialize into a self-describing snapshot container
// (codec and compressor are recorded in the header and selected by
// name on load):
//
//	err := model.SaveToFile("model.rvm")
//	loaded, err := sparsebayes.NewFromFile("model.rvm")
//
// Snapshots can also be kept in a blobstore.BlobStore (in-memory,
// local filesystem, S3 or MinIO).
//
// # Concurrency
//
// A model instance is not safe for concurrent use; callers must
// serialize access or use separate instances. Fitting is a sequential
// fixed-point iteration, cancellable via context once per iteration
// boundary.
package sparsebayes
