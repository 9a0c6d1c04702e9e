// Package process terminates the headless browser started for PDF export
// together with its helper processes.
package process
