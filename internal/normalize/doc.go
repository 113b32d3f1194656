// Package normalize prepares directory trees for version control by planting
// marker files inside leaf-empty directories so Git preserves the structure.
package normalize
