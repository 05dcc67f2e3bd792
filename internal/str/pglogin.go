//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type PostgresLogin struct {
	Host   string
	Port   int
	User   string
	Pass   string
	DBName string
}

// Usable - an export is only attempted when a password and a database were supplied
func (pl PostgresLogin) Usable() bool {
	return pl.Pass != "" && pl.DBName != ""
}
