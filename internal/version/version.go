// Package version reports the build identity of the tabtodo binary.
package version

import "runtime/debug"

// Set with -ldflags "-X tabtodo/internal/version.Version=...". When left
// empty, Commit and Date fall back to the VCS stamps Go embeds in the binary.
var (
    Version = "dev"
    Commit  = ""
    Date    = ""
)

func String() string {
    commit, date := Commit, Date
    if commit == "" && date == "" { commit, date = vcsStamp() }
    return format(Version, commit, date)
}

func format(v, commit, date string) string {
    s := "tabtodo " + v
    if commit != "" {
        if len(commit) > 12 { commit = commit[:12] }
        s += "+" + commit
    }
    if date != "" { s += " (" + date + ")" }
    return s
}

func vcsStamp() (commit, date string) {
    info, ok := debug.ReadBuildInfo()
    if !ok { return "", "" }
    for _, kv := range info.Settings {
        switch kv.Key {
        case "vcs.revision":
            commit = kv.Value
        case "vcs.time":
            date = kv.Value
        }
    }
    return commit, date
}
