// Package theme resolves the symbolic popup theme keys (border and
// background colors, border width, radius, shadow and arrow dimensions) from
// YAML theme files. Themes are looked up in ~/.config/anchorpop/themes/ first
// and then in the embedded set; a theme may extend another one.
package theme
