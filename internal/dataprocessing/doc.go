// Package dataprocessing loads the InSAR target database into memory.
//
// The database is an Excel workbook whose "insarTargets" sheet carries two
// header rows: a human readable description row followed by the column keys
// (instrClass, owner, siteId, ...). By default the first row is discarded and
// the second becomes the header; LoadOptions.HeaderRow changes that.
//
// # Usage
//
//	table, err := dataprocessing.LoadTargets("targets.xlsx", dataprocessing.TargetColumns, dataprocessing.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//
// A Table is an ordered set of string rows under a named column list. Every
// operation (Where, Select) returns a new Table and leaves its receiver
// untouched. Typed converts a cell to bool, int64, float64 or string for
// consumers that need typed values.
package dataprocessing
