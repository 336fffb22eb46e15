// Package kd adapts kdtree.Tree to the index.Index contract by mapping build
// positions back to caller ids.
package kd
