// Package ui holds the terminal collaborators: the interactive commit
// picker, the wait spinner shown until the first answer fragment, and the
// styled error line.
package ui
