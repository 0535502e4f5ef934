// Package home provides the dashboard feature for the UI.
package home

// cardsID is the element patched by dashboard updates.
const cardsID = "dashboard-cards"
