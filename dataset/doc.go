// Package dataset collects labeled samples and loads them from CSV files.
package dataset
