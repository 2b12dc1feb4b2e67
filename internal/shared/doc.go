// Package shared holds helpers used across the insarmap packages that do not
// belong to any single pipeline stage.
//
// The testutil subpackage provides:
//
//	- A capturing slog handler and log assertions
//	- Target record fixtures and workbook builders for loader tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteTargetWorkbook(t, testutil.SampleTargets())
//	    ...
//	}
package shared
