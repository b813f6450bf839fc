package cli

import (
	"fmt"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals) error {
	switch c.Shell {
	case "bash":
		return c.generateBash(globals)
	case "zsh":
		return c.generateZsh(globals)
	case "fish":
		return c.generateFish(globals)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
}

func (c *CompletionCmd) generateBash(globals *Globals) error {
	script := `# watch404 bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(watch404 completion bash)"

_watch404_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="scan preview ui state config doctor version completion examples"
    local global_flags="-f --format -q --quiet -v --verbose"
    local scan_flags="--log --prefix --host --state --to --from --subject --images-only --image-ext --exclude-prefix ${global_flags}"

    case "${prev}" in
        watch404)
            COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
            return
            ;;
        -f|--format)
            COMPREPLY=($(compgen -W "text ndjson" -- "${cur}"))
            return
            ;;
        --log|--state)
            _filedir
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
        state)
            COMPREPLY=($(compgen -W "show reset" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            return
            ;;
    esac

    case "${words[1]}" in
        scan)
            COMPREPLY=($(compgen -W "${scan_flags} --stdout --dry-run" -- "${cur}"))
            ;;
        preview|ui)
            COMPREPLY=($(compgen -W "${scan_flags}" -- "${cur}"))
            ;;
        doctor)
            COMPREPLY=($(compgen -W "--log --state ${global_flags}" -- "${cur}"))
            ;;
        *)
            COMPREPLY=($(compgen -W "${commands} ${global_flags}" -- "${cur}"))
            ;;
    esac
}

complete -F _watch404_completions watch404
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

func (c *CompletionCmd) generateZsh(globals *Globals) error {
	script := `#compdef watch404
# watch404 zsh completion script
# Add to ~/.zshrc:
#   eval "$(watch404 completion zsh)"

_watch404() {
    local -a commands
    commands=(
        'scan:Scan new log lines and mail the 404 report'
        'preview:Run the scan read-only and print the report as a table'
        'ui:Browse the scan result interactively'
        'state:Inspect or reset the scan checkpoint'
        'config:Show or manage configuration'
        'doctor:Check log, state, and mail agent health'
        'version:Show version information'
        'completion:Generate shell completions'
        'examples:Show usage examples'
    )

    local -a global_opts
    global_opts=(
        '-f[Output format]:format:(text ndjson)'
        '--format[Output format]:format:(text ndjson)'
        '-q[Suppress informational output]'
        '--quiet[Suppress informational output]'
        '-v[Show debug output]'
        '--verbose[Show debug output]'
    )

    local -a scan_opts
    scan_opts=(
        '--log[Access log to scan]:file:_files'
        '--prefix[Only report 404s under this URL prefix]:prefix:'
        '--host[Host label for the report]:host:'
        '--state[Checkpoint file]:file:_files'
        '--to[Report recipient address]:address:'
        '--from[Report sender address]:address:'
        '--subject[Report subject line]:subject:'
        '--images-only[Only report missing images]'
        '--image-ext[Extensions that count as images]:extensions:'
        '--exclude-prefix[Skip 404s under these URL prefixes]:prefixes:'
    )

    _arguments -C \
        $global_opts \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                scan)
                    _arguments \
                        $scan_opts \
                        '--stdout[Print the report to stdout instead of mailing it]' \
                        '--dry-run[Scan without saving the checkpoint or sending mail]' \
                        $global_opts
                    ;;
                preview|ui)
                    _arguments $scan_opts $global_opts
                    ;;
                state)
                    _arguments '1:subcommand:(show reset)'
                    ;;
                config)
                    _arguments '1:subcommand:(show path generate)'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

compdef _watch404 watch404
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

func (c *CompletionCmd) generateFish(globals *Globals) error {
	script := `# watch404 fish completion script
# Add to ~/.config/fish/completions/watch404.fish

# Disable file completion by default
complete -c watch404 -f

# Commands
complete -c watch404 -n "__fish_use_subcommand" -a "scan" -d "Scan new log lines and mail the 404 report"
complete -c watch404 -n "__fish_use_subcommand" -a "preview" -d "Run the scan read-only and print the report as a table"
complete -c watch404 -n "__fish_use_subcommand" -a "ui" -d "Browse the scan result interactively"
complete -c watch404 -n "__fish_use_subcommand" -a "state" -d "Inspect or reset the scan checkpoint"
complete -c watch404 -n "__fish_use_subcommand" -a "config" -d "Show or manage configuration"
complete -c watch404 -n "__fish_use_subcommand" -a "doctor" -d "Check log, state, and mail agent health"
complete -c watch404 -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c watch404 -n "__fish_use_subcommand" -a "completion" -d "Generate shell completions"
complete -c watch404 -n "__fish_use_subcommand" -a "examples" -d "Show usage examples"

# Global flags
complete -c watch404 -s f -l format -d "Output format" -xa "text ndjson"
complete -c watch404 -s q -l quiet -d "Suppress informational output"
complete -c watch404 -s v -l verbose -d "Show debug output"

# Scan/preview/ui flags
for cmd in scan preview ui
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l log -d "Access log to scan" -r -F
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l prefix -d "Only report 404s under this URL prefix" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l host -d "Host label for the report" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l state -d "Checkpoint file" -r -F
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l to -d "Report recipient address" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l from -d "Report sender address" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l subject -d "Report subject line" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l images-only -d "Only report missing images"
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l image-ext -d "Extensions that count as images" -r
    complete -c watch404 -n "__fish_seen_subcommand_from $cmd" -l exclude-prefix -d "Skip 404s under these URL prefixes" -r
end

complete -c watch404 -n "__fish_seen_subcommand_from scan" -l stdout -d "Print the report to stdout instead of mailing it"
complete -c watch404 -n "__fish_seen_subcommand_from scan" -l dry-run -d "Scan without saving the checkpoint or sending mail"

# Subcommands
complete -c watch404 -n "__fish_seen_subcommand_from state" -a "show reset"
complete -c watch404 -n "__fish_seen_subcommand_from config" -a "show path generate"
complete -c watch404 -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}
