// Package ui implements the terminal admin panel.
//
// The TUI drives the login flow state machine from [client.LoginFlow] and,
// once authenticated, manages the song list against the server API. Views:
//
//  1. Login: password prompt (or first-time setup notice)
//  2. Setup: mandatory password change on first use
//  3. Songs: song list with add and delete
//  4. Add: title/artist/genre form
package ui
