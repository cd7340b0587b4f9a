// Package htmlstream provides the consumer-facing token built from htmltext
// tokens. Tag and attribute names that are known HTML atoms are stored as
// atom.Atom values; other names are interned per Converter so repeated custom
// elements share one string.
package htmlstream
