// Package pagesum fetches a web page, renders it as plain text, strips
// markup and citation noise, and optionally asks an LLM for a summary.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, openai/).
package pagesum
