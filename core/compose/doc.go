// Package compose renders page responses from line-oriented template
// resources: an outer layout with named block markers, a handler-specific
// template, conditional section removal and ordered substitution passes.
//
// This is deliberately a small hand-written scanner, not a general template
// engine. Exact line-based conditional removal and the fixed substitution
// order are observable behavior that existing templates depend on.
//
// # Conditional sections
//
// Lines between an opening and closing marker are dropped when the marker's
// condition fails for the current session, entity or action:
//
//	{$if-role=admin,operator}
//	<li><a href="/admin">Administration</a></li>
//	{$endif-role}
//
// Six marker kinds exist: role, !role, entity, !entity, action, !action.
// The negated kinds show their block only when the value is NOT matched.
// Flags are flat per kind and layer: a second opening marker of a kind
// while that kind is already open is inert, and the first closing marker
// ends removal. The page layout, the handler template and each block are
// independent layers with fresh flags.
//
// # Blocks
//
// A layout references blocks as {#head}, {#header}, {#langmenu}, {#menu},
// {#thememenu}, {#message}, {#template}, {#footer}, {#dialog}, {#script}
// or {#script:name}. Blocks resolve as resources under the configured
// blocks path and compose to nothing when missing or suppressed: message
// without a pending flash, menu when hidden for the handler, langmenu with
// fewer than two configured languages.
//
// {#template} injects the handler resource with its accumulated {$head},
// {$data} and {$paginator} buffers (consumed exactly once), the handler's
// template variables, and the single-record substitutions {$id}, {$dbid},
// {$displayName}, {$csrfToken} and {$userlink}.
//
// # Substitution order
//
// After block expansion: global tags ({$title}, {$user}, {$userfull},
// {$lang}, {$theme}, {$antitheme}), then whole-page handler variables, then
// {$l.key,arg} translation tags, then href/src/action/location path
// prefixing for deployments served under a sub-path.
//
// # Failure sentinels
//
// Compose never returns an error. An unresolvable resource yields
// "NOTFOUND:<path>", any other composition failure "PARERROR:<path>:<msg>".
// The dispatcher detects both (IsNotFound, IsParseError) and converts them
// into proper error responses.
//
// Template resources ending in .json take a flat pass: handler variables
// plus the data and paginator buffers, no layout, no link rewriting.
package compose
