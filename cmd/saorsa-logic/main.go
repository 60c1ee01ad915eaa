package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"

	"saorsa.dev/logic/attestation"
	"saorsa.dev/logic/cidutil"
	"saorsa.dev/logic/data"
	"saorsa.dev/logic/keys"
	"saorsa.dev/logic/merkle"
	"saorsa.dev/logic/model"
	"saorsa.dev/logic/storage/casregistry"

	_ "saorsa.dev/logic/storage/grpccas"
	_ "saorsa.dev/logic/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "derive":
		return cmdDerive(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "hash":
		return cmdHash(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "merkle":
		return cmdMerkle(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "cas":
		return cmdCAS(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "saorsa-logic: entangled attestation, content hashing and Merkle proof CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  saorsa-logic derive (--node-key <mldsa65:...> | --public-key-file <path>) (--binary-digest <64hex> | --binary-file <path>) --nonce <n>")
	fmt.Fprintln(w, "  saorsa-logic verify --id <64hex> (--node-key ... | --public-key-file ...) (--binary-digest ... | --binary-file ...) --nonce <n>")
	fmt.Fprintln(w, "  saorsa-logic hash <file>")
	fmt.Fprintln(w, "  saorsa-logic cid <file>")
	fmt.Fprintln(w, "  saorsa-logic merkle root --leaf <64hex> [--leaf ...]")
	fmt.Fprintln(w, "  saorsa-logic merkle prove --index <i> --leaf <64hex> [--leaf ...]")
	fmt.Fprintln(w, "  saorsa-logic merkle verify --leaf-hash <64hex> --index <i> --root <64hex> [--step (L|R):<64hex> ...]")
	fmt.Fprintln(w, "  saorsa-logic key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  saorsa-logic key derive-epoch --from <name> --epoch <n> [--force]")
	fmt.Fprintln(w, "  saorsa-logic key list")
	fmt.Fprintln(w, "  saorsa-logic key export --name <name> [--epoch <n>]")
	fmt.Fprintln(w, "  saorsa-logic cas (put <file> | get <cid> | has <cid>) --backend <name> [backend flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars)")
	fmt.Fprintln(w, "  - KMS-lite stores keys under ~/.saorsa/keys/<name> (0600 seed files)")
	fmt.Fprintln(w, "  - verify exits 0 when the ID matches, 1 when it does not")
	fmt.Fprintln(w, "  - merkle prove prints one step per line as SIDE:HEX; SIDE is the sibling side")
	fmt.Fprintln(w, "  - cas CIDs are CIDv1 raw + blake3, matching 'saorsa-logic cid'")
}

// attestationInputs resolves the shared derive/verify flags into raw bytes.
func attestationInputs(fs *flag.FlagSet, errOut io.Writer) (pk []byte, digest []byte, ok bool) {
	nodeKey := fs.Lookup("node-key").Value.String()
	keyFile := fs.Lookup("public-key-file").Value.String()
	digestHex := fs.Lookup("binary-digest").Value.String()
	binaryFile := fs.Lookup("binary-file").Value.String()

	switch {
	case nodeKey != "" && keyFile != "":
		fmt.Fprintln(errOut, "conflicting flags: --node-key cannot be combined with --public-key-file")
		return nil, nil, false
	case nodeKey != "":
		pub, err := keys.ParseNodeKey(nodeKey)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --node-key: %v\n", err)
			return nil, nil, false
		}
		b, err := keys.PublicKeyBytes(pub)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --node-key: %v\n", err)
			return nil, nil, false
		}
		pk = b
	case keyFile != "":
		b, err := os.ReadFile(keyFile)
		if err != nil {
			fmt.Fprintf(errOut, "read public key: %v\n", err)
			return nil, nil, false
		}
		pk = b
	default:
		fmt.Fprintln(errOut, "missing public key: use --node-key or --public-key-file")
		return nil, nil, false
	}

	switch {
	case digestHex != "" && binaryFile != "":
		fmt.Fprintln(errOut, "conflicting flags: --binary-digest cannot be combined with --binary-file")
		return nil, nil, false
	case digestHex != "":
		h, err := model.ParseHash(digestHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --binary-digest: %v\n", err)
			return nil, nil, false
		}
		digest = h[:]
	case binaryFile != "":
		b, err := os.ReadFile(binaryFile)
		if err != nil {
			fmt.Fprintf(errOut, "read binary: %v\n", err)
			return nil, nil, false
		}
		h := data.ComputeContentHash(b)
		digest = h[:]
	default:
		fmt.Fprintln(errOut, "missing binary digest: use --binary-digest or --binary-file")
		return nil, nil, false
	}

	return pk, digest, true
}

func addAttestationFlags(fs *flag.FlagSet) *uint64 {
	fs.String("node-key", "", "Node public key as mldsa65:<base64>")
	fs.String("public-key-file", "", "Path to the raw 1952-byte public key")
	fs.String("binary-digest", "", "Binary digest as 64 hex chars")
	fs.String("binary-file", "", "Path to the binary; its content hash is used as the digest")
	return fs.Uint64("nonce", 0, "Attestation nonce")
}

func cmdDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	nonce := addAttestationFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pk, digest, ok := attestationInputs(fs, errOut)
	if !ok {
		return 2
	}

	id, err := attestation.DeriveEntangledID(pk, digest, *nonce)
	if err != nil {
		fmt.Fprintf(errOut, "derive: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, model.FormatHash(id))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	nonce := addAttestationFlags(fs)
	idHex := fs.String("id", "", "Claimed entangled ID as 64 hex chars")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *idHex == "" {
		fmt.Fprintln(errOut, "missing --id")
		return 2
	}
	id, err := model.ParseHash(*idHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --id: %v\n", err)
		return 2
	}
	pk, digest, ok := attestationInputs(fs, errOut)
	if !ok {
		return 2
	}

	match, err := attestation.VerifyEntangledID(id, pk, digest, *nonce)
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	if !match {
		fmt.Fprintln(errOut, "entangled ID does not match")
		return 1
	}
	_, _ = fmt.Fprintln(out, "ok")
	return 0
}

func cmdHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: saorsa-logic hash <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read content: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, model.FormatHash(data.ComputeContentHash(b)))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: saorsa-logic cid <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read content: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, cidutil.CIDv1RawBlake3(b))
	return 0
}

type hashList []model.Hash

func (h *hashList) String() string { return fmt.Sprintf("%d leaves", len(*h)) }
func (h *hashList) Set(v string) error {
	parsed, err := model.ParseHash(v)
	if err != nil {
		return err
	}
	*h = append(*h, parsed)
	return nil
}

type stepList merkle.Proof

func (s *stepList) String() string { return fmt.Sprintf("%d steps", len(*s)) }
func (s *stepList) Set(v string) error {
	side, hexPart, found := strings.Cut(v, ":")
	if !found {
		return fmt.Errorf("step must be SIDE:HEX, got %q", v)
	}
	sibling, err := model.ParseHash(hexPart)
	if err != nil {
		return err
	}
	step := merkle.ProofStep{Sibling: sibling}
	switch side {
	case "L":
		step.Side = merkle.SiblingLeft
	case "R":
		step.Side = merkle.SiblingRight
	default:
		return fmt.Errorf("step side must be L or R, got %q", side)
	}
	*s = append(*s, step)
	return nil
}

func formatStep(step merkle.ProofStep) string {
	side := "R"
	if step.Side == merkle.SiblingLeft {
		side = "L"
	}
	return side + ":" + model.FormatHash(step.Sibling)
}

func cmdMerkle(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: saorsa-logic merkle <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: root, prove, verify")
		return 2
	}
	switch args[0] {
	case "root":
		fs := flag.NewFlagSet("merkle root", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var leaves hashList
		fs.Var(&leaves, "leaf", "Leaf hash as 64 hex chars (repeatable, ordered)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		root, err := merkle.Root(leaves)
		if err != nil {
			fmt.Fprintf(errOut, "merkle root: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, model.FormatHash(root))
		return 0
	case "prove":
		fs := flag.NewFlagSet("merkle prove", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var leaves hashList
		fs.Var(&leaves, "leaf", "Leaf hash as 64 hex chars (repeatable, ordered)")
		index := fs.Int("index", -1, "Index of the leaf to prove")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		proof, err := merkle.BuildProof(leaves, *index)
		if err != nil {
			fmt.Fprintf(errOut, "merkle prove: %v\n", err)
			return 1
		}
		for _, step := range proof {
			_, _ = fmt.Fprintln(out, formatStep(step))
		}
		return 0
	case "verify":
		fs := flag.NewFlagSet("merkle verify", flag.ContinueOnError)
		fs.SetOutput(errOut)
		leafHex := fs.String("leaf-hash", "", "Leaf hash as 64 hex chars")
		rootHex := fs.String("root", "", "Claimed root as 64 hex chars")
		index := fs.Int("index", -1, "Index of the leaf")
		var steps stepList
		fs.Var(&steps, "step", "Proof step as (L|R):<64hex> (repeatable, leaf-to-root order)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		leaf, err := model.ParseHash(*leafHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --leaf-hash: %v\n", err)
			return 2
		}
		root, err := model.ParseHash(*rootHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --root: %v\n", err)
			return 2
		}
		match, err := merkle.VerifyProof(leaf, *index, merkle.Proof(steps), root)
		if err != nil {
			fmt.Fprintf(errOut, "merkle verify: %v\n", err)
			return 1
		}
		if !match {
			fmt.Fprintln(errOut, "proof does not match root")
			return 1
		}
		_, _ = fmt.Fprintln(out, "ok")
		return 0
	default:
		fmt.Fprintf(errOut, "unknown merkle subcommand: %s\n", args[0])
		return 2
	}
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: saorsa-logic key <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: init, derive-epoch, list, export")
		return 2
	}

	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "Key name")
		seedHex := fs.String("seed-hex", "", "Seed as 64 hex chars (random when omitted)")
		force := fs.Bool("force", false, "Overwrite an existing key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *name == "" {
			fmt.Fprintln(errOut, "missing --name")
			return 2
		}
		var seed []byte
		if *seedHex != "" {
			seed, err = keys.ParseSeedHex(*seedHex)
			if err != nil {
				fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
				return 2
			}
		} else {
			seed = make([]byte, keys.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				fmt.Fprintf(errOut, "generating seed: %v\n", err)
				return 1
			}
		}
		nodeKey, path, err := ks.InitializeRootKey(*name, seed, *force)
		if err != nil {
			fmt.Fprintf(errOut, "key init: %v\n", err)
			return 1
		}
		fmt.Fprintf(errOut, "seed file: %s\n", path)
		_, _ = fmt.Fprintln(out, nodeKey)
		return 0
	case "derive-epoch":
		fs := flag.NewFlagSet("key derive-epoch", flag.ContinueOnError)
		fs.SetOutput(errOut)
		from := fs.String("from", "", "Root key name")
		epoch := fs.Uint64("epoch", 0, "Epoch number")
		force := fs.Bool("force", false, "Overwrite an existing epoch key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *from == "" {
			fmt.Fprintln(errOut, "missing --from")
			return 2
		}
		nodeKey, path, err := ks.DeriveEpochKey(*from, *epoch, *force)
		if err != nil {
			fmt.Fprintf(errOut, "key derive-epoch: %v\n", err)
			return 1
		}
		fmt.Fprintf(errOut, "seed file: %s\n", path)
		_, _ = fmt.Fprintln(out, nodeKey)
		return 0
	case "list":
		entries, err := ks.ListKeys()
		if err != nil {
			fmt.Fprintf(errOut, "key list: %v\n", err)
			return 1
		}
		for _, entry := range entries {
			if len(entry.Epochs) == 0 {
				_, _ = fmt.Fprintln(out, entry.Identifier)
				continue
			}
			epochs := make([]string, 0, len(entry.Epochs))
			for _, e := range entry.Epochs {
				epochs = append(epochs, fmt.Sprintf("%d", e))
			}
			_, _ = fmt.Fprintf(out, "%s\tepochs: %s\n", entry.Identifier, strings.Join(epochs, ","))
		}
		return 0
	case "export":
		fs := flag.NewFlagSet("key export", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "Key name")
		epoch := fs.Uint64("epoch", 0, "Epoch number (root key when omitted)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *name == "" {
			fmt.Fprintln(errOut, "missing --name")
			return 2
		}
		var nodeKey string
		if epochSet(fs) {
			nodeKey, err = ks.ExportEpochKey(*name, *epoch)
		} else {
			nodeKey, err = ks.ExportRootKey(*name)
		}
		if err != nil {
			fmt.Fprintf(errOut, "key export: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, nodeKey)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func epochSet(fs *flag.FlagSet) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "epoch" {
			set = true
		}
	})
	return set
}

func cmdCAS(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: saorsa-logic cas (put <file> | get <cid> | has <cid>) --backend <name> [backend flags]")
		fmt.Fprintf(errOut, "backends: %s\n", strings.Join(casregistry.Names(casregistry.UsageCLI), ", "))
		return 2
	}
	sub := args[0]
	switch sub {
	case "put", "get", "has":
	default:
		fmt.Fprintf(errOut, "unknown cas subcommand: %s\n", sub)
		return 2
	}

	fs := flag.NewFlagSet("cas "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "CAS backend name")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: saorsa-logic cas %s <arg> --backend <name>\n", sub)
		return 2
	}

	cas, closeFn, err := casregistry.Open(*backend, casregistry.UsageCLI)
	if err != nil {
		fmt.Fprintf(errOut, "cas: %v\n", err)
		return 2
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	switch sub {
	case "put":
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read content: %v\n", err)
			return 1
		}
		id, err := cas.Put(b)
		if err != nil {
			fmt.Fprintf(errOut, "cas put: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id.String())
		return 0
	case "get":
		parsed, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 2
		}
		b, err := cas.Get(parsed)
		if err != nil {
			fmt.Fprintf(errOut, "cas get: %v\n", err)
			return 1
		}
		_, _ = out.Write(b)
		return 0
	case "has":
		parsed, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 2
		}
		if !cas.Has(parsed) {
			fmt.Fprintln(errOut, "not found")
			return 1
		}
		_, _ = fmt.Fprintln(out, "ok")
		return 0
	}
	return 2
}
