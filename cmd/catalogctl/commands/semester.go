package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func semesterCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semester",
		Short: "Convert between semester codes and year/term",
	}

	encode := &cobra.Command{
		Use:   "encode YEAR TERM",
		Short: "Print the code of a semester, e.g. encode 2025 fall",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			code, err := e.cfg.Codec().Encode(year, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}

	decode := &cobra.Command{
		Use:   "decode CODE",
		Short: "Print the year and term of a semester code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid semester code %q", args[0])
			}
			sem, err := e.cfg.Codec().Decode(code)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sem.String())
			return nil
		},
	}

	previous := &cobra.Command{
		Use:   "previous CODE [N]",
		Short: "Print the N semesters before CODE, newest first",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid semester code %q", args[0])
			}
			n := 1
			if len(args) == 2 {
				if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
					return fmt.Errorf("invalid count %q", args[1])
				}
			}

			codec := e.cfg.Codec()
			sem, err := codec.Decode(code)
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				if sem, err = codec.Previous(sem.Year, string(sem.Term)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", sem.Code, sem.String())
			}
			return nil
		},
	}

	cmd.AddCommand(encode, decode, previous)
	return cmd
}
