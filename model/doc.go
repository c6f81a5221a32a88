// Package model is the convenience layer over the operator graph: Model
// resolves a data source into cached metadata providers, Results maps the
// physical quantities the result file offers onto builders, and Result is
// the fluent configuration object that composes scoping, location and
// time selections before triggering exactly one evaluation.
package model
