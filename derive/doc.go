// Package derive turns a Go sum type into a payload-free tag type and the
// code that classifies every value of the sum type by its variant.
//
// # Sum types
//
// A sum type is a named interface whose method set holds one or more marker
// methods. Its variants are the named non-interface types of the same package
// that declare every marker method:
//
//	//enumtag:derive
//	type Shape interface{ isShape() }
//
//	type Circle struct{ Radius float64 }
//	func (Circle) isShape() {}
//
// A method named Tag is never a marker, so the interface may require the
// generated method itself (`Tag() ShapeTag`).
//
// # Pipeline
//
// Each requested type goes through three stages:
//
//  1. Extract reads the declaration into a SumType or rejects it with a
//     *KindError (struct, array, constraint interface, anything else).
//  2. Synthesize copies variant names and discriminants into a TagType.
//  3. Bind builds the classification: one Tag method per variant and a
//     dispatch function with one arm per variant.
//
// Synthesize and Bind cannot fail. Render turns the derived declarations of
// one package into a single formatted Go file.
package derive
