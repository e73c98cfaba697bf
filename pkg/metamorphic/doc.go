// Package metamorphic implements smooth hot-reload transitions between two
// gateway configuration versions: a linear blend of scalar fields, a
// progress-gated switch of categorical fields, and add-from-zero /
// drain-until-one semantics for upstream and route membership changes.
package metamorphic
