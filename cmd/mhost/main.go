// Command mhost is a thin CLI skeleton over the mhost resolution core.
// Flag parsing and output formatting are deliberately minimal here — the
// CLI surface itself is an external collaborator, out of scope for the
// resolution core in the module root package.
package main

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhostdns/mhost"
	"github.com/mhostdns/mhost/internal/config"
)

// Exit codes, per spec §6.
const (
	exitOK                  = 0
	exitCLIParse            = 1
	exitConfigParse         = 2
	exitUnrecoverable       = 3
	exitModuleFailed        = 10
	exitCheckFailed         = 11
	exitAbortedPrecondition = 12
)

var (
	serverFlags []string
	groupFlag   string
	configFlag  string
	timeoutFlag time.Duration
	jsonFlag    bool
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCLIParse)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mhost",
		Short:         "Concurrent multi-resolver DNS investigation tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVarP(&serverFlags, "server", "s", nil, "name server in NameServerConfig text form (repeatable)")
	root.PersistentFlags().StringVarP(&groupFlag, "group", "g", "", "named resolver group from --config")
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to a named resolver-group YAML config")
	root.PersistentFlags().DurationVarP(&timeoutFlag, "timeout", "t", 5*time.Second, "per-attempt query timeout")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "emit JSON instead of a line-oriented summary")

	root.AddCommand(newLookupCmd())
	root.AddCommand(newMultiLookupCmd())
	root.AddCommand(newServiceCmd())
	root.AddCommand(newSOACheckCmd())
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newSPFCheckCmd())
	root.AddCommand(newPTRSweepCmd())
	root.AddCommand(newCNAMECmd())

	return root
}

func newLookupCmd() *cobra.Command {
	var recordType string
	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve one name against one record type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}

			rt, err := mhost.ParseRecordType(recordType)
			if err != nil {
				return fmt.Errorf("%v", err)
			}

			mq, err := mhost.NewMultiQuery(args[0], []mhost.RecordType{rt})
			if err != nil {
				return err
			}

			lookups := group.Lookup(cmd.Context(), mq, nil)
			printLookups(lookups)
			if !lookups.IsResponse() {
				os.Exit(exitModuleFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&recordType, "type", "T", "A", "record type to query")
	return cmd
}

func newMultiLookupCmd() *cobra.Command {
	var recordTypes []string
	cmd := &cobra.Command{
		Use:   "multi-lookup <name> [name...]",
		Short: "Resolve one or more names against one or more record types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}

			types := make([]mhost.RecordType, 0, len(recordTypes))
			for _, s := range recordTypes {
				rt, err := mhost.ParseRecordType(s)
				if err != nil {
					return err
				}
				types = append(types, rt)
			}

			mq, err := mhost.MultiRecord(args, types)
			if err != nil {
				return err
			}

			lookups := group.Lookup(cmd.Context(), mq, nil)
			printLookups(lookups)
			if lookups.NXDomainOnly() {
				os.Exit(exitModuleFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&recordTypes, "type", "T", []string{"A"}, "record types to query (repeatable)")
	return cmd
}

func newServiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "service <_service._proto.name>",
		Short: "Resolve an SRV service spec and follow its targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}
			if len(group.Resolvers) == 0 {
				return fmt.Errorf("no resolvers configured")
			}

			spec, err := mhost.ParseServiceSpec(args[0])
			if err != nil {
				return err
			}

			results, err := mhost.LookupService(cmd.Context(), group.Resolvers[0], spec)
			if err != nil {
				os.Exit(exitModuleFailed)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalServiceResults(results))
			}
			for _, r := range results {
				fmt.Printf("%s priority=%d weight=%d port=%d\n", r.SRV.Target, r.SRV.Priority, r.SRV.Weight, r.SRV.Port)
				for _, l := range r.Addresses.All() {
					printLookup(l)
				}
			}
			return nil
		},
	}
}

func newSOACheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soa-check <zone>",
		Short: "Compare SOA records across an explicit set of authoritative servers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := resolveConfig()
			if err != nil {
				os.Exit(exitConfigParse)
			}
			if len(servers) == 0 {
				return fmt.Errorf("soa-check requires --server to name the servers to compare")
			}

			zone, err := mhost.NewName(args[0])
			if err != nil {
				return err
			}

			report, err := mhost.CheckSOA(cmd.Context(), servers, mhost.DefaultResolverOpts(), zone)
			if err != nil {
				os.Exit(exitModuleFailed)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalSOACheckReport(report))
			}
			for _, m := range report.Mismatches {
				fmt.Println(m.String())
			}
			if len(report.Mismatches) > 0 {
				os.Exit(exitCheckFailed)
			}
			return nil
		},
	}
	return cmd
}

func newDiscoverCmd() *cobra.Command {
	var recordType string
	cmd := &cobra.Command{
		Use:   "discover <zone>",
		Short: "Probe a zone for a DNS wildcard before further enumeration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}
			if len(group.Resolvers) == 0 {
				return fmt.Errorf("no resolvers configured")
			}

			zone, err := mhost.NewName(args[0])
			if err != nil {
				return err
			}
			rt, err := mhost.ParseRecordType(recordType)
			if err != nil {
				return err
			}

			report, err := mhost.DetectWildcard(cmd.Context(), group.Resolvers[0], zone, rt)
			if err != nil {
				os.Exit(exitAbortedPrecondition)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalWildcardReport(report))
			}
			if report.Wildcarded {
				fmt.Printf("%s appears to be wildcarded (%d records)\n", zone, len(report.Records))
			} else {
				fmt.Printf("%s does not appear to be wildcarded\n", zone)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&recordType, "type", "T", "A", "record type to probe with")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var recordType string
	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Query --server's resolvers independently and flag disagreement",
		Long:  "check resolves <name> against every --server entry separately (not as fan-out of one resolver) and reports which servers form the minority answer, per spec's server-agreement view.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(serverFlags) == 0 {
				return fmt.Errorf("check requires --server to name the servers to compare (repeatable)")
			}
			cfg, err := parseServers(serverFlags)
			if err != nil {
				os.Exit(exitConfigParse)
			}

			rt, err := mhost.ParseRecordType(recordType)
			if err != nil {
				return err
			}
			q, err := mhost.NewQuery(args[0], rt)
			if err != nil {
				return err
			}
			mq, err := mhost.MultiQueryOf(q)
			if err != nil {
				return err
			}

			opts := mhost.DefaultResolverOpts()
			opts.Timeout = timeoutFlag
			resolvers := make([]*mhost.Resolver, len(cfg))
			for i, ns := range cfg {
				resolvers[i] = mhost.NewResolver(mhost.ResolverConfig{ns}, opts)
			}
			group := mhost.NewResolverGroup(resolvers, mhost.DefaultResolverGroupOpts())

			lookups := group.Lookup(cmd.Context(), mq, nil)
			agreement := lookups.Agreement(q)

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalServerAgreement(agreement))
			}

			minority := false
			for _, a := range agreement {
				tag := "majority"
				if !a.IsMajority {
					tag = "minority"
					minority = true
				}
				fmt.Printf("[%s] %d server(s) agree: %v\n", tag, len(a.Servers), a.Servers)
			}
			if minority {
				os.Exit(exitCheckFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&recordType, "type", "T", "A", "record type to query")
	return cmd
}

func newSPFCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spf-check <domain>",
		Short: "Parse a domain's SPF record and follow its includes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}
			if len(group.Resolvers) == 0 {
				return fmt.Errorf("no resolvers configured")
			}

			domain, err := mhost.NewName(args[0])
			if err != nil {
				return err
			}

			report, err := mhost.CheckSPF(cmd.Context(), group.Resolvers[0], domain)
			if err != nil {
				os.Exit(exitModuleFailed)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalSPFReport(report))
			}
			for _, w := range report.Warnings {
				fmt.Printf("warning: %s: %s\n", w.Domain, w.Message)
			}
			for domain := range report.Included {
				fmt.Println("include:", domain)
			}
			if len(report.Warnings) > 0 {
				os.Exit(exitCheckFailed)
			}
			return nil
		},
	}
}

func newPTRSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ptr-sweep <cidr>",
		Short: "Resolve PTR records for every address in a CIDR prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}

			prefix, err := netip.ParsePrefix(args[0])
			if err != nil {
				return err
			}

			results, err := mhost.SweepPTR(cmd.Context(), group, prefix)
			if err != nil {
				os.Exit(exitModuleFailed)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalPTRSweepResults(results))
			}
			for _, r := range results {
				for _, l := range r.Lookups {
					printLookup(l)
				}
			}
			return nil
		},
	}
}

func newCNAMECmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cname <name>",
		Short: "Chase a name's CNAME chain to its terminal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := resolveGroup()
			if err != nil {
				os.Exit(exitConfigParse)
			}
			if len(group.Resolvers) == 0 {
				return fmt.Errorf("no resolvers configured")
			}

			name, err := mhost.NewName(args[0])
			if err != nil {
				return err
			}

			chain, err := mhost.ChaseCNAME(cmd.Context(), group.Resolvers[0], name)
			if err != nil {
				os.Exit(exitModuleFailed)
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(mhost.MarshalCNAMEChain(chain))
			}
			for _, hop := range chain.Hops {
				fmt.Printf("%s -> %s\n", hop.Name, recordValue(hop.Record))
			}
			if chain.Truncated {
				fmt.Println("(chain truncated)")
			}
			return nil
		},
	}
}

// resolveGroup builds a ResolverGroup from --server, --group/--config, or
// (absent either) the OS-level resolver configuration.
func resolveGroup() (*mhost.ResolverGroup, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	opts := mhost.DefaultResolverOpts()
	opts.Timeout = timeoutFlag

	if len(cfg) == 0 {
		return mhost.FromSystemConfig("/etc/resolv.conf", opts, mhost.DefaultResolverGroupOpts())
	}

	resolver := mhost.NewResolver(cfg, opts)
	return mhost.NewResolverGroup([]*mhost.Resolver{resolver}, mhost.DefaultResolverGroupOpts()), nil
}

// resolveConfig turns --server and/or --group/--config into a
// ResolverConfig, preferring explicit --server entries.
func resolveConfig() (mhost.ResolverConfig, error) {
	if len(serverFlags) > 0 {
		return parseServers(serverFlags)
	}

	if groupFlag == "" {
		return nil, nil
	}
	if configFlag == "" {
		return nil, fmt.Errorf("--group requires --config")
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	servers, ok := cfg.Group(groupFlag)
	if !ok {
		return nil, fmt.Errorf("no resolver group named %q in %s", groupFlag, configFlag)
	}
	return parseServers(servers)
}

func parseServers(specs []string) (mhost.ResolverConfig, error) {
	cfg := make(mhost.ResolverConfig, 0, len(specs))
	for _, s := range specs {
		ns, err := mhost.ParseNameServerConfig(s)
		if err != nil {
			return nil, err
		}
		cfg = append(cfg, ns)
	}
	return cfg, nil
}

func printLookups(lookups mhost.Lookups) {
	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(mhost.MarshalLookups(lookups))
		return
	}
	for _, l := range lookups.All() {
		printLookup(l)
	}
}

func printLookup(l mhost.Lookup) {
	switch l.Outcome {
	case mhost.OutcomeResponse:
		if len(l.Records) == 0 {
			fmt.Printf("%s %s - no records\n", l.Query.Name, l.Query.RecordType)
			return
		}
		for _, r := range l.Records {
			fmt.Printf("%s %s %s\n", r.Name, r.Type, recordValue(r))
		}
	case mhost.OutcomeNXDomain:
		fmt.Printf("%s %s - NXDOMAIN\n", l.Query.Name, l.Query.RecordType)
	case mhost.OutcomeTimeout:
		fmt.Printf("%s %s - timeout\n", l.Query.Name, l.Query.RecordType)
	case mhost.OutcomeError:
		fmt.Printf("%s %s - error: %s\n", l.Query.Name, l.Query.RecordType, l.ErrorMsg)
	}
}

func recordValue(r mhost.Record) string {
	if v, ok := r.RData.A(); ok {
		return v.String()
	}
	if v, ok := r.RData.AAAA(); ok {
		return v.String()
	}
	if v, ok := r.RData.CNAME(); ok {
		return v.String()
	}
	if v, ok := r.RData.TXTJoined(); ok {
		return v
	}
	return strings.TrimSpace(fmt.Sprintf("%+v", r.RData))
}
