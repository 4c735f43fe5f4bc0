// Package tags models datapack tag files and resolves them into flat member
// lists on top of a resolve.Layered graph.
package tags
