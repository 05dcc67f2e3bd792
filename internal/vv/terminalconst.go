//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	PROJYEAR = "2026"
	PROJAUTH = "E. Gunderson"
	PROJURL  = "https://github.com/e-gun/TextClusterLab"

	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or
      modify it under the terms of the GNU General Public License version 3.`

	HELPTEXTTEMPLATE = `S3command line optionsS0:
   C1-bwC0          disable color output in the console
   C1-cfC0 C2{path}C0   read an experiment configuration file (same format as "C3{{.conffile}}C0")
   C1-dbC0 C2{path}C0   sqlite results ledger [C6currentC0: C3{{.ledger}}C0]
   C1-elC0 C2{num}C0    set echo server log level (C10-3C0) [C6currentC0: C3{{.echoll}}C0]
   C1-glC0 C2{num}C0    set golang log level (C1-1-5C0) [C6currentC0: C3{{.tclll}}C0]
   C1-gzC0          enable gzip compression of the review server's output
   C1-hC0           print this help information
   C1-kcC0          keep the intermediate per-topic CSV files
   C1-ncC0 C2{num}C0    number of clusters [C6currentC0: C3{{.nclusters}}C0]
   C1-ndC0 C2{num}C0    posts to read per cluster [C6currentC0: C3{{.toread}}C0]
   C1-nsC0 C2{num}C0    number of samples to cluster [C6currentC0: C3{{.samples}}C0]
   C1-pcC0          enable CPU profiling run
   C1-pgC0 C2{string}C0 supply full PostgreSQL credentials and export results there C4(*)C0
   C1-pmC0          enable MEM profiling run
   C1-r1C0          skip the data retrieval notebook
   C1-r2C0          skip the clustering notebook
   C1-rsC0 C2{num}C0    k-means random state [C6currentC0: C3{{.seed}}C0]
   C1-saC0 C2{string}C0 review server IP address [C6currentC0: C3{{.host}}C0]
   C1-soC0          serve the results ledger only; do not run anything
   C1-spC0 C2{num}C0    review server port [C6currentC0: C3{{.port}}C0]
   C1-svC0          serve the results ledger after the run
   C1-vC0           print version info and exit
   C1-wcC0 C2{int}C0    number of workers [C1cpu_countC0 is C3{{.cpus}}C0][C6currentC0: C3{{.workers}}C0]
   C1-wdC0 C2{path}C0   project root [C6currentC0: C3{{.cwd}}C0]
     (*) S3exampleS0:
         C4"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"textclusterlab\" ,\"User\": \"tcl_wr\"}"C0

     S1NB:S0 a properly formatted version of "C3{{.conffile}}C0" in "C3{{.home}}C0" configures everything for you.
`
)
